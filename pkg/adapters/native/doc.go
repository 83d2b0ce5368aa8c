// Package native provides the host collaborators used when running embedded in the
// desktop shell: OS path resolution, file I/O, shell open, file dialogs, outbound fetch,
// GitHub release checks and process relaunch.
//
// External programs (the URL opener, the dialog helper) are resolved through a Runner
// holding an allow-list of launchers, so nothing user-supplied is ever used as a command
// name.
package native
