package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"ecochat-core/testutil"
)

func TestResolveIdentity(t *testing.T) {
	db := testutil.NewDB(t)
	ana := testutil.CreateUser(t, db, "Ana Silva", "ana@eco.com")
	joao := testutil.CreateUser(t, db, "João Souza", "Joao@Eco.com")
	testutil.CreateUser(t, db, "Pedro Costa", "pedro1@eco.com")
	testutil.CreateUser(t, db, "pedro costa", "pedro2@eco.com")
	// A display name that looks like someone else's email.
	testutil.CreateUser(t, db, "ana@eco.com", "other@eco.com")
	// Integer tokens are ids only, even when a display name matches them.
	testutil.CreateUser(t, db, "-5", "minus@eco.com")
	testutil.CreateUser(t, db, "99999999999999999999999", "big@eco.com")

	svc := NewIdentityService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		want    uint
		wantErr error
	}{
		{"numeric id", strconv.Itoa(int(ana.ID)), ana.ID, nil},
		{"numeric id with spaces", " " + strconv.Itoa(int(joao.ID)) + " ", joao.ID, nil},
		{"unknown numeric id", "9999", 0, ErrNotFound},
		{"plus-signed id", "+" + strconv.Itoa(int(ana.ID)), ana.ID, nil},
		{"negative id", "-5", 0, ErrNotFound},
		{"id out of range", "99999999999999999999999", 0, ErrNotFound},
		{"zero id", "0", 0, ErrNotFound},
		{"email exact", "ana@eco.com", ana.ID, nil},
		{"email case-insensitive", "JOAO@eco.COM", joao.ID, nil},
		{"name case-insensitive", "joão souza", joao.ID, nil},
		{"name unicode fold", "JOÃO SOUZA", joao.ID, nil},
		{"ambiguous name", "Pedro Costa", 0, ErrAmbiguousMatch},
		{"no partial match", "Ana", 0, ErrNotFound},
		{"empty", "   ", 0, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(ctx, tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got id=%d err=%v", tt.wantErr, got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve %q: %v", tt.token, err)
			}
			if got != tt.want {
				t.Fatalf("resolve %q: expected %d, got %d", tt.token, tt.want, got)
			}
		})
	}
}
