package testparser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTestCountsAdd_NilReceiver(t *testing.T) {
	t.Parallel()
	// Document that nil receiver panics (standard Go behavior)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on nil receiver, got none")
		}
	}()

	var tc *TestCounts
	tc.Add(&TestCounts{Passed: 1})
}

func TestTestCountsAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		base     TestCounts
		add      *TestCounts
		expected TestCounts
	}{
		{
			name:     "add to zero",
			base:     TestCounts{},
			add:      &TestCounts{Passed: 10, Failed: 2, Skipped: 3, Todo: 1, Total: 16, Parsed: true},
			expected: TestCounts{Passed: 10, Failed: 2, Skipped: 3, Todo: 1, Total: 16, Parsed: true},
		},
		{
			name:     "add to existing",
			base:     TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
			add:      &TestCounts{Passed: 10, Failed: 2, Skipped: 3, Total: 15, Parsed: true},
			expected: TestCounts{Passed: 15, Failed: 3, Skipped: 5, Total: 23, Parsed: true},
		},
		{
			name:     "add nil",
			base:     TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
			add:      nil,
			expected: TestCounts{Passed: 5, Failed: 1, Skipped: 2, Total: 8, Parsed: true},
		},
		{
			name:     "add unparsed to parsed",
			base:     TestCounts{Passed: 5, Parsed: true},
			add:      &TestCounts{Passed: 10, Parsed: false},
			expected: TestCounts{Passed: 15, Parsed: true}, // Stays parsed
		},
		{
			name:     "planned is not aggregated",
			base:     TestCounts{Planned: 3},
			add:      &TestCounts{Planned: 7, Parsed: true},
			expected: TestCounts{Planned: 3, Parsed: true},
		},
		{
			name: "failed tests appended",
			base: TestCounts{FailedTests: []FailedTest{{Name: "a"}}},
			add:  &TestCounts{Failed: 1, FailedTests: []FailedTest{{Name: "b", Reason: "boom"}}},
			expected: TestCounts{
				Failed:      1,
				FailedTests: []FailedTest{{Name: "a"}, {Name: "b", Reason: "boom"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := tt.base
			base.Add(tt.add)

			if diff := cmp.Diff(tt.expected, base); diff != "" {
				t.Errorf("Add() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
