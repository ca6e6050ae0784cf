package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Credentials is the subset of a Google service-account key file the
// client needs. The coach shares the activity folder with the service
// account once; there is no interactive OAuth flow.
type Credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// LoadCredentials reads and validates a service-account key file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	if creds.ClientEmail == "" {
		return nil, errors.New("credentials file is missing client_email")
	}
	if creds.PrivateKey == "" {
		return nil, errors.New("credentials file is missing private_key")
	}

	return &creds, nil
}
