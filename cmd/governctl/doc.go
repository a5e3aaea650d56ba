// Package main implements governctl, the operational CLI of the tag and
// asset-group governance engine.
//
// The engine itself is a library; the enclosing incident-response platform
// calls it directly. governctl covers the operational surface around it:
//
//	# Create and/or upgrade the database schema
//	governctl db migrate
//
//	# Seed system-level default tag sets from a template file
//	governctl defaults load ./defaults.yml
//
//	# Provision a new organization with the required system tags
//	governctl provision org-42
//
//	# Merge one tag into another
//	governctl tag merge org-42 <source-id> <target-id> --by ops@example.com
//
//	# Re-evaluate dynamic group membership
//	governctl group recompute org-42
//
//	# Recount denormalized counters, once or on a schedule
//	governctl reconcile
//	governctl reconcile --schedule
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - GOVERN_CONFIG_PATH: config file location (default /etc/govern/config/govern.yml)
//   - GOVERN_REDIS_ADDR: cache invalidation Redis address (empty disables)
//   - GOVERN_LOG_LEVEL: log level (debug, info, warn, error)
//   - GOVERN_RECONCILE_SCHEDULE: cron expression for scheduled reconciliation
package main
