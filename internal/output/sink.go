package output

import (
	"fmt"
	"io"
	"os"
)

// Emit writes doc verbatim to path when one is given, then prints it to stdout.
// The file goes first so a failed save leaves nothing half-reported.
func Emit(stdout io.Writer, path, doc string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write transcript %s: %w", path, err)
		}
	}
	if _, err := fmt.Fprintln(stdout, doc); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
