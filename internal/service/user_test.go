package service

import (
	"context"
	"testing"
)

func TestListUsers_ExcludesCaller(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	env.register(t, "bob")
	env.register(t, "carol")

	users, err := env.users.ListUsers(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListUsers() unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].Name != "bob" || users[1].Name != "carol" {
		t.Errorf("users = [%s %s], want [bob carol] by registration order", users[0].Name, users[1].Name)
	}

	all, err := env.users.ListUsers(context.Background(), "")
	if err != nil {
		t.Fatalf("ListUsers() unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	bob := env.register(t, "bob")

	if err := env.users.DeleteUser(context.Background(), bob.ID); err != nil {
		t.Fatalf("DeleteUser() unexpected error: %v", err)
	}
	if err := env.users.DeleteUser(context.Background(), bob.ID); err != ErrUserNotFound {
		t.Errorf("DeleteUser() again error = %v, want ErrUserNotFound", err)
	}
}
