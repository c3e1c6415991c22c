package patch

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// NPMVersion reads the top-level version field of package.json content.
func NPMVersion(content []byte) (string, error) {
	if !gjson.ValidBytes(content) {
		return "", fmt.Errorf("invalid package.json")
	}
	v := gjson.GetBytes(content, "version")
	if !v.Exists() {
		return "", ErrNoVersion
	}
	return v.String(), nil
}

// SetNPMVersion sets the top-level version field of package.json content.
// All other fields, their order and their formatting are preserved.
// Returns changed=false when the file already holds newVersion.
func SetNPMVersion(content []byte, newVersion string) ([]byte, bool, error) {
	current, err := NPMVersion(content)
	if err != nil {
		if errors.Is(err, ErrNoVersion) {
			return nil, false, ErrNotApplicable
		}
		return nil, false, err
	}
	if current == newVersion {
		return content, false, nil
	}
	out, err := sjson.SetBytes(content, "version", newVersion)
	if err != nil {
		return nil, false, fmt.Errorf("setting version: %w", err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, true, nil
}
