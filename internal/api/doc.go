// Package api handles incoming HTTP requests for the task-creation endpoint
// and the today dashboard. It decodes requests, calls the services, and maps
// their errors to the {"success":false,"error":...} envelope with fixed,
// client-safe messages.
package api
