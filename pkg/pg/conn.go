package pg

import (
	"database/sql"
	"fmt"
)

// Config is one side of the read/write pair; cmd mains fill it from the
// POSTGRES_READ_* / POSTGRES_WRITE_* settings.
type Config struct {
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
}

// newSqlConnection opens a plain database/sql handle for goose, which
// does not run through gorm.
func newSqlConnection(config Config) (*sql.DB, error) {
	return sql.Open("postgres", fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", config.Host, config.User, config.Password, config.Database, config.Port))
}
