package config

import "fmt"

// DSN builds the connection string for the configured driver. The sqlite
// driver takes the database file path as is.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			d.Host, d.User, d.Password, d.Name, d.portOr("5432"))
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.portOr("3306"), d.Name)
	case "mssql":
		return fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			d.User, d.Password, d.Host, d.portOr("1433"), d.Name)
	default:
		return d.Path
	}
}

func (d DatabaseConfig) portOr(fallback string) string {
	if d.Port == "" {
		return fallback
	}
	return d.Port
}
