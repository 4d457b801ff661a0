package constants

// Viper keys. Environment overrides use the DOSIMETRIA_ prefix with dots
// replaced by underscores, e.g. DOSIMETRIA_NINOX_API_TOKEN.
const (
	ViperHTTPAddr = "http.addr"
	ViperLogMode  = "log.mode"

	// store.backend selects the record store implementation: "ninox" or "postgres".
	ViperStoreBackend = "store.backend"

	ViperNinoxBaseURL           = "ninox.base_url"
	ViperNinoxAPIToken          = "ninox.api_token"
	ViperNinoxTeamID            = "ninox.team_id"
	ViperNinoxDatabaseID        = "ninox.database_id"
	ViperNinoxParticipantsTable = "ninox.participants_table"
	ViperNinoxReportTable       = "ninox.report_table"
	ViperNinoxPMAsText          = "ninox.pm_as_text"

	ViperPostgresDSN = "postgres.dsn"
)

const (
	StoreBackendNinox    = "ninox"
	StoreBackendPostgres = "postgres"
)

// CtxKeyRunID carries the pipeline-run id through request contexts.
const CtxKeyRunID = "run_id"
