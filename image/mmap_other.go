//go:build !unix

package image

// Open reads and parses the image file at path.
func Open(path string) (*Image, error) {
	return readFile(path)
}
