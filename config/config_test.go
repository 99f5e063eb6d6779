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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hubgov.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfig_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_source": {"dns": "mongodb://localhost:27017"},
		"redis": {"dns": "localhost:6379"},
		"ledger": {"url": "http://localhost:3020"}
	}`)

	require.NoError(t, InitConfig(path))
	cnf, err := Fetch()
	require.NoError(t, err)

	assert.Equal(t, "Hubgov Server", cnf.ProjectName)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, "hubgov", cnf.DataSource.Database)
	assert.Equal(t, DefaultHubParticipantID, cnf.Hub.ParticipantID)
	assert.Equal(t, []string{"USD"}, cnf.Hub.Currencies)
	assert.Equal(t, 30, cnf.Ledger.Timeout)
	assert.Equal(t, "hubgov:audit", cnf.Queue.AuditQueue)
	assert.Equal(t, "hubgov:settlement", cnf.Queue.SettlementQueue)
}

func TestInitConfig_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing data source",
			content: `{"redis": {"dns": "localhost:6379"}, "ledger": {"url": "http://localhost:3020"}}`,
		},
		{
			name:    "missing redis",
			content: `{"data_source": {"dns": "mongodb://localhost:27017"}, "ledger": {"url": "http://localhost:3020"}}`,
		},
		{
			name:    "missing ledger",
			content: `{"data_source": {"dns": "mongodb://localhost:27017"}, "redis": {"dns": "localhost:6379"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			assert.Error(t, InitConfig(path))
		})
	}
}

func TestReload_NotifiesListeners(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_source": {"dns": "mongodb://localhost:27017"},
		"redis": {"dns": "localhost:6379"},
		"ledger": {"url": "http://localhost:3020"},
		"hub": {"currencies": ["USD"]}
	}`)
	require.NoError(t, InitConfig(path))

	var observed []string
	OnChange(func(cnf *Configuration) {
		observed = cnf.Hub.Currencies
	})

	path = writeConfigFile(t, `{
		"data_source": {"dns": "mongodb://localhost:27017"},
		"redis": {"dns": "localhost:6379"},
		"ledger": {"url": "http://localhost:3020"},
		"hub": {"currencies": ["USD", "EUR"]}
	}`)
	require.NoError(t, Reload(path))
	assert.Equal(t, []string{"USD", "EUR"}, observed)
}

func TestMockConfig_Fetch(t *testing.T) {
	MockConfig(&Configuration{ProjectName: "test"})
	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "test", cnf.ProjectName)
}
