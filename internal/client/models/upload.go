package models

// UploadPhase enumerates the states of an interactive import.
type UploadPhase int

const (
	UploadIdle UploadPhase = iota
	UploadUploading
	UploadSucceeded
	UploadFailed
)

func (p UploadPhase) String() string {
	switch p {
	case UploadUploading:
		return "uploading"
	case UploadSucceeded:
		return "success"
	case UploadFailed:
		return "failure"
	default:
		return "idle"
	}
}

// UploadState is what the presentation layer shows about the most recent
// import. Book is set on success, Message on failure.
type UploadState struct {
	Phase   UploadPhase
	Book    Book
	Message string
}

func IdleUpload() UploadState { return UploadState{Phase: UploadIdle} }

func Uploading() UploadState { return UploadState{Phase: UploadUploading} }

func UploadSuccess(b Book) UploadState { return UploadState{Phase: UploadSucceeded, Book: b} }

func UploadFailure(msg string) UploadState { return UploadState{Phase: UploadFailed, Message: msg} }
