package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"proxyprofile/internal/profile"

	"github.com/google/uuid"
)

// Identity returns a stable hash of a bean's connection settings. Two links
// that differ only in their remark share an identity.
func Identity(b profile.Bean) (string, error) {
	data, err := profile.EncodeBean(b)
	if err != nil {
		return "", err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", err
	}
	delete(fields, "name")
	fields["serverAddress"] = strings.ToLower(b.Address())

	// Same user id written in a different case or with braces
	if id, ok := fields["uuid"].(string); ok {
		if parsed, err := uuid.Parse(id); err == nil {
			fields["uuid"] = parsed.String()
		}
	}

	// Map keys are marshalled sorted
	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}

	signature := fmt.Sprintf("%d|%s", b.Kind(), canonical)
	hash := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(hash[:]), nil
}
