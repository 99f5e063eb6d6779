/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "3010"

	// DefaultHubParticipantID is the reserved id of the hub participant
	// unless overridden by configuration.
	DefaultHubParticipantID = "hub"
)

var ConfigStore atomic.Value

var (
	listenersMu sync.Mutex
	listeners   []func(*Configuration)
)

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"HUBGOV_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"HUBGOV_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"HUBGOV_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns      string `json:"dns" envconfig:"HUBGOV_DATA_SOURCE_DNS"`
	Database string `json:"database" envconfig:"HUBGOV_DATA_SOURCE_DATABASE"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"HUBGOV_REDIS_DNS"`
}

type LedgerConfig struct {
	Url          string `json:"url" envconfig:"HUBGOV_LEDGER_URL"`
	ServiceToken string `json:"service_token" envconfig:"HUBGOV_LEDGER_SERVICE_TOKEN"`
	Timeout      int    `json:"timeout"`
}

type HubConfig struct {
	ParticipantID string   `json:"participant_id" envconfig:"HUBGOV_HUB_PARTICIPANT_ID"`
	Currencies    []string `json:"currencies" envconfig:"HUBGOV_HUB_CURRENCIES"`
}

// TokenIdentity maps an opaque bearer token to a caller identity. This stands
// in for the platform token service, which is out of scope here.
type TokenIdentity struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	ClientID string   `json:"client_id"`
	Roles    []string `json:"roles"`
}

type AuthConfig struct {
	Tokens []TokenIdentity     `json:"tokens"`
	Roles  map[string][]string `json:"roles"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type QueueConfig struct {
	AuditQueue      string `json:"audit_queue"`
	EventQueue      string `json:"event_queue"`
	SettlementQueue string `json:"settlement_queue"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"HUBGOV_PROJECT_NAME"`
	Server       ServerConfig     `json:"server"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Ledger       LedgerConfig     `json:"ledger"`
	Hub          HubConfig        `json:"hub"`
	Auth         AuthConfig       `json:"auth"`
	Queue        QueueConfig      `json:"queue"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("hubgov", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	notifyListeners(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

// Reload re-reads the configuration file and fires every registered change
// listener with the fresh configuration.
func Reload(configFile string) error {
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called hubgov.json with your config")
	}
	return c, nil
}

// OnChange registers a listener invoked whenever the configuration is loaded
// or reloaded. The governance aggregate uses this to refresh its cached
// currency list.
func OnChange(fn func(*Configuration)) {
	listenersMu.Lock()
	defer listenersMu.Unlock()
	listeners = append(listeners, fn)
}

func notifyListeners(cnf *Configuration) {
	listenersMu.Lock()
	fns := make([]func(*Configuration), len(listeners))
	copy(fns, listeners)
	listenersMu.Unlock()
	for _, fn := range fns {
		fn(cnf)
	}
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Hubgov Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}
	if cnf.DataSource.Database == "" {
		cnf.DataSource.Database = "hubgov"
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	if cnf.Ledger.Url == "" {
		log.Println("Error: Ledger URL is empty. It's a required field.")
		return errors.New("ledger URL is required")
	}
	if cnf.Ledger.Timeout == 0 {
		cnf.Ledger.Timeout = 30
	}

	if cnf.Hub.ParticipantID == "" {
		cnf.Hub.ParticipantID = DefaultHubParticipantID
	}
	if len(cnf.Hub.Currencies) == 0 {
		log.Println("Warning: No hub currencies configured. Defaulting to USD.")
		cnf.Hub.Currencies = []string{"USD"}
	}

	if cnf.Queue.AuditQueue == "" {
		cnf.Queue.AuditQueue = "hubgov:audit"
	}
	if cnf.Queue.EventQueue == "" {
		cnf.Queue.EventQueue = "hubgov:events"
	}
	if cnf.Queue.SettlementQueue == "" {
		cnf.Queue.SettlementQueue = "hubgov:settlement"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Ledger.Url = strings.TrimSpace(cnf.Ledger.Url)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
	notifyListeners(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
