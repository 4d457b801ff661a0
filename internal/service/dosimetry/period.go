package dosimetry

import (
	"strconv"
	"strings"
	"time"
)

// monthNames is the reporting locale's month table for derived period labels.
var monthNames = [12]string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// ResolvePeriod decides the final reportable period label for a record.
//
// The control record always keeps the literal "CONTROL" token. For other
// records an empty or control-prefixed token yields "<MES> <AÑO>" derived
// from the reading date, falling back to "CONTROL" when no date exists so
// the row stays identifiable; any other token has trailing dots stripped.
func ResolvePeriod(token string, readAt *time.Time, isControl bool) string {
	if isControl {
		return "CONTROL"
	}

	tok := strings.TrimRight(strings.TrimSpace(token), ".")
	if tok != "" && tok != "CONTROL" {
		return tok
	}

	if readAt == nil {
		return "CONTROL"
	}
	return monthNames[readAt.Month()-1] + " " + strconv.Itoa(readAt.Year())
}
