// Package connectors groups the clients for the database services pitrseek
// searches. Each subpackage implements the driven ports for one service;
// google/spanner reads Cloud Spanner through its REST API.
package connectors
