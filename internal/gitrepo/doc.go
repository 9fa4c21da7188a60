// Package gitrepo shells out to the git binary for the repository
// operations a workflow run needs: shallow clones with commit checkout,
// provenance introspection of existing clones, and working-directory
// provisioning with delete-on-failure cleanup.
package gitrepo
