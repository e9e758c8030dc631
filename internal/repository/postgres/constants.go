package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound   = "user not found"
	errReportNotFound = "report not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedGetUserFmt    = "failed to get user: %w"
	errFailedCreateUserFmt = "failed to create user: %w"

	errFailedGetReportFmt        = "failed to get report: %w"
	errFailedListReportFieldsFmt = "failed to list report fields: %w"
	errFailedScanReportFieldFmt  = "failed to scan report field: %w"
	errIterateReportFieldsFmt    = "error iterating report fields: %w"
)

var (
	errFailedCreateUser           = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedGetReport            = func(err error) error { return fmt.Errorf(errFailedGetReportFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedListReportFields     = func(err error) error { return fmt.Errorf(errFailedListReportFieldsFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanReportField      = func(err error) error { return fmt.Errorf(errFailedScanReportFieldFmt, err) }
	errIterateReportFields        = func(err error) error { return fmt.Errorf(errIterateReportFieldsFmt, err) }
)
