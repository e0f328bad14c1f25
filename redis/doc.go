// Package redis provides Redis connectivity with startup retry and a
// ping healthcheck. Redis is optional in this module: it only backs the
// shared rate-limit counters for multi-instance deployments.
package redis
