// Package main provides the entry point for the CargoLink back-office service.
// It initializes and runs a web server using the Fiber framework that serves
// the public site content API (news posts, job offers, contact details) and
// the administrative API for users, roles, menu visibility, posts, job offers
// and notifications. The application uses gorm for data persistence and keeps
// uploaded CVs and cover images in an S3-compatible object store.
package main
