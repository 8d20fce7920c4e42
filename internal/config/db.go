package config

// Supported database engines.
const (
	// EngineMySQL selects the MySQL gorm driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the Postgres gorm driver.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql or postgres
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
