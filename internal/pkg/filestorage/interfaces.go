package filestorage

import "mime/multipart"

// FileStorage is the media collaborator: it persists uploaded post images
// and returns the path under which they are served.
type FileStorage interface {
	// SaveFile stores an uploaded file and returns its accessible path.
	// A nil header is not an error; it returns an empty path.
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(filePath string) error
}
