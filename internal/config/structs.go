package config

import (
	"time"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
	Queue     Queue
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string  // domain name for the webserver
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}

// Storage holds the S3-compatible object store settings for CV and image uploads.
type Storage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Queue holds the Kafka settings for the notification event stream.
type Queue struct {
	Enabled  bool
	Broker   string
	Topic    string
	GroupID  string
	Username string
	Password string
}
