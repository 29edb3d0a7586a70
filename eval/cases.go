// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/vibematch/core"
	"gopkg.in/yaml.v3"
)

// LoadCases reads evaluation cases from a YAML list:
//
//	- name: date night by the sea
//	  tags: [Romantic, Coastal]
//	  expected: [Harbour House]
func LoadCases(path string) ([]core.EvaluationCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}
	return ParseCases(data)
}

// ParseCases decodes and validates evaluation cases.
func ParseCases(data []byte) ([]core.EvaluationCase, error) {
	var cases []core.EvaluationCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, errors.New("no evaluation cases")
	}

	seen := make(map[string]bool, len(cases))
	for i, c := range cases {
		if strings.TrimSpace(c.Name) == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
			cases[i].Name = c.Name
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate case name %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Tags) == 0 {
			return nil, fmt.Errorf("case %q: %w", c.Name, core.ErrEmptyQuery)
		}
		if len(c.Expected) == 0 {
			return nil, fmt.Errorf("case %q: no expected venues", c.Name)
		}
	}
	return cases, nil
}
