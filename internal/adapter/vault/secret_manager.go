package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads runtime credentials from Vault's KV v2 engine. Secrets
// live under secret/data/ratesense/<name>; config values act as fallbacks
// when Vault is not configured.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) read(path string) (map[string]interface{}, error) {
	secret, err := sm.client.Logical().Read("secret/data/ratesense/" + path)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault: secret ratesense/%s not found", path)
	}
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vault: secret ratesense/%s has no data block", path)
	}
	return data, nil
}

func (sm *SecretManager) field(path, key string) (string, error) {
	data, err := sm.read(path)
	if err != nil {
		return "", err
	}
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: secret ratesense/%s missing %s", path, key)
	}
	return value, nil
}

// GetDatabaseDSN returns the Postgres connection string.
func (sm *SecretManager) GetDatabaseDSN() (string, error) {
	return sm.field("database", "connection_string")
}

// GetPrevioCredentials returns the PMS login and password.
func (sm *SecretManager) GetPrevioCredentials() (login, password string, err error) {
	data, err := sm.read("previo")
	if err != nil {
		return "", "", err
	}
	login, _ = data["login"].(string)
	password, _ = data["password"].(string)
	if login == "" || password == "" {
		return "", "", fmt.Errorf("vault: secret ratesense/previo incomplete")
	}
	return login, password, nil
}

// GetEQCCredentials returns the channel-manager username and password.
func (sm *SecretManager) GetEQCCredentials() (username, password string, err error) {
	data, err := sm.read("eqc")
	if err != nil {
		return "", "", err
	}
	username, _ = data["username"].(string)
	password, _ = data["password"].(string)
	if username == "" || password == "" {
		return "", "", fmt.Errorf("vault: secret ratesense/eqc incomplete")
	}
	return username, password, nil
}

// GetSendGridAPIKey returns the email provider key.
func (sm *SecretManager) GetSendGridAPIKey() (string, error) {
	return sm.field("sendgrid", "api_key")
}

// GetJWTSecret returns the token signing secret.
func (sm *SecretManager) GetJWTSecret() (string, error) {
	return sm.field("jwt", "secret")
}
