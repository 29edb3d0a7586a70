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

package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/poiesic/vibematch/ai"
)

// MockDescriber is a test double for ai.Describer.
// It is safe for concurrent use.
type MockDescriber struct {
	// DescribeVenueFunc is called by DescribeVenue if set.
	DescribeVenueFunc func(ctx context.Context, venue ai.VenueProfile) (string, error)

	// DescribeVibeFunc is called by DescribeVibe if set.
	DescribeVibeFunc func(ctx context.Context, vibe, category string) (string, error)

	mu        sync.Mutex
	callCount int
}

var _ ai.Describer = (*MockDescriber)(nil)

// NewMockDescriber creates a mock describer with default template behavior.
func NewMockDescriber() *MockDescriber {
	return &MockDescriber{}
}

// DescribeVenue returns a templated sentence built from the venue's vibes.
func (m *MockDescriber) DescribeVenue(ctx context.Context, venue ai.VenueProfile) (string, error) {
	m.increment()
	if m.DescribeVenueFunc != nil {
		return m.DescribeVenueFunc(ctx, venue)
	}
	if len(venue.Vibes) == 0 {
		return fmt.Sprintf("%s is a %s worth a visit.", venue.Name, strings.ToLower(venue.Category)), nil
	}
	return fmt.Sprintf("%s feels %s.", venue.Name, strings.ToLower(strings.Join(venue.Vibes, ", "))), nil
}

// DescribeVibe returns a templated sentence for the vibe.
func (m *MockDescriber) DescribeVibe(ctx context.Context, vibe, category string) (string, error) {
	m.increment()
	if m.DescribeVibeFunc != nil {
		return m.DescribeVibeFunc(ctx, vibe, category)
	}
	return fmt.Sprintf("A %s %s experience.", strings.ToLower(vibe), strings.ToLower(category)), nil
}

func (m *MockDescriber) increment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
}

// CallCount returns the number of times any describe method was called.
func (m *MockDescriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
