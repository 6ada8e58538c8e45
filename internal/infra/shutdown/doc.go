// Package shutdown provides graceful teardown for long-running tools.
package shutdown
