// Package database handles database connections.
//
// It wraps GORM to configure MySQL and SQLite connections from the application's
// configuration. The property store's SQL backend is built on top of the *gorm.DB
// returned here.
//
// # Usage
//
//	db, err := database.Connect(database.Config{Driver: "sqlite", Name: "/var/lib/propstore/properties.db"})
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
package database
