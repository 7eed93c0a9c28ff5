//go:build !linux

package watcher

// DetectFilesystemType has no statfs probe off Linux; fsnotify is trusted
// and the TREETOP_FORCE_POLL escape hatch covers network mounts.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
