package todo

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tasks := []Task{
		{ID: "aaaa1111", Text: "Buy milk"},
		{ID: "aaaa2222", Text: "Walk dog"},
		{ID: "bbbb3333", Text: "Walk dog"},
		{ID: "cccc4444", Text: "42"},
	}

	tests := []struct {
		ref      string
		want     int
		wantErr  bool
		notFound bool
	}{
		{ref: "1", want: 0},
		{ref: "4", want: 3},
		{ref: "aaaa2222", want: 1},
		{ref: "bbbb", want: 2},
		{ref: "aaaa", wantErr: true},
		{ref: "Buy milk", want: 0},
		{ref: "Walk dog", wantErr: true},
		{ref: "42", want: 3},
		{ref: "9", wantErr: true, notFound: true},
		{ref: "nothing", wantErr: true, notFound: true},
		{ref: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := Resolve(tasks, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got index %d", got)
				}
				if tt.notFound && !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
