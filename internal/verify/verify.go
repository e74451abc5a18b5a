package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/rjindal/segfetch/internal/utils"
)

// blockSize matches the content-addressing scheme of the storage
// backend: sha256 over each 4 MiB block, the block digests concatenated
// and hashed again.
const blockSize = 4 * 1024 * 1024

// ContentHash streams the file and returns the hex digest of the
// block-wise hash described above.
func ContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening file for hashing: %v", err)
	}
	defer f.Close()

	overall := sha256.New()
	buffer := make([]byte, blockSize)
	for {
		n, err := io.ReadFull(f, buffer)
		if n > 0 {
			blockSum := sha256.Sum256(buffer[:n])
			overall.Write(blockSum[:])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("error reading file for hashing: %v", err)
		}
	}
	return hex.EncodeToString(overall.Sum(nil)), nil
}

// Verify compares the file's content hash against the server-declared
// value. The comparison is case-sensitive.
func Verify(path string, expected string) error {
	log := utils.GetLogger("verify")
	digest, err := ContentHash(path)
	if err != nil {
		return err
	}
	if digest != expected {
		return fmt.Errorf("%w: computed %s, declared %s", utils.ErrVerificationFailed, digest, expected)
	}
	log.Debug().Str("file", path).Str("digest", digest).Msg("Content hash verified")
	return nil
}
