package userctx

import (
	"context"
	"testing"
)

func TestOwnerID(t *testing.T) {
	if got := OwnerID(context.Background()); got != DefaultUserID {
		t.Fatalf("expected %q, got %q", DefaultUserID, got)
	}
	if got := OwnerID(WithUserID(context.Background(), "  ")); got != DefaultUserID {
		t.Fatalf("blank user id should fall back, got %q", got)
	}
	if got := OwnerID(WithUserID(context.Background(), "u-1")); got != "u-1" {
		t.Fatalf("expected u-1, got %q", got)
	}
}

func TestTrackUser(t *testing.T) {
	ctx, user := TrackUser(context.Background())
	if got := user(); got != "" {
		t.Fatalf("expected empty user before auth, got %q", got)
	}

	inner := WithUserID(ctx, "u-2")
	if got := user(); got != "u-2" {
		t.Fatalf("expected u-2, got %q", got)
	}
	if got := OwnerID(inner); got != "u-2" {
		t.Fatalf("expected owner u-2, got %q", got)
	}

	// без TrackUser WithUserID работает как раньше
	if got := OwnerID(WithUserID(context.Background(), "u-3")); got != "u-3" {
		t.Fatalf("expected u-3, got %q", got)
	}
}
