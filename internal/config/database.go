// internal/config/database.go
package config

import (
	"fmt"
	"time"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// WriteTimeout is the deadline applied to every mutating store call.
func (d *DatabaseConfig) WriteTimeout() time.Duration {
	return time.Duration(d.WriteTimeoutMS) * time.Millisecond
}
