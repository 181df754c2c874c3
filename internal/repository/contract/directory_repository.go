package contract

import "hr-helpdesk-be/pkg/dialog"

// DirectoryRepository is the database-backed employee directory.
type DirectoryRepository interface {
	dialog.Directory
}
