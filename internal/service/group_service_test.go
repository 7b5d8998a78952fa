package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/groupledger/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	c := setupTestServer(t)
	alice := register(t, c, "alice@example.com", "Alice")

	resp, err := c.groups.CreateGroup(context.Background(), authed(&api.CreateGroupRequest{
		Name:        "Roommates",
		Description: "Rent and groceries",
	}, alice))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", group.Name)
	}
	if group.CreatedBy != alice.ID {
		t.Errorf("created_by: expected %s, got %s", alice.ID, group.CreatedBy)
	}
	if len(group.Members) != 1 || group.Members[0].UserID != alice.ID || group.Members[0].DisplayName != "Alice" {
		t.Errorf("members: expected creator only, got %+v", group.Members)
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	c := setupTestServer(t)
	alice := register(t, c, "alice@example.com", "Alice")

	_, err := c.groups.CreateGroup(context.Background(), authed(&api.CreateGroupRequest{Name: "  "}, alice))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: "No token"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestAddMemberAndGetGroup(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	alice := register(t, c, "alice@example.com", "Alice")
	bob := register(t, c, "bob@example.com", "Bob")
	register(t, c, "carol@example.com", "Carol")

	groupID := createGroupWith(t, c, alice, "Bob@Example.com", "carol@example.com")

	// Adding someone twice is a no-op.
	if _, err := c.groups.AddMember(ctx, authed(&api.AddMemberRequest{GroupID: groupID, Email: "bob@example.com"}, alice)); err != nil {
		t.Fatalf("repeated AddMember failed: %v", err)
	}

	// Bob is a member now and can read the group.
	resp, err := c.groups.GetGroup(ctx, authed(&api.GetGroupRequest{GroupID: groupID}, bob))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	names := []string{}
	for _, m := range resp.Msg.Group.Members {
		names = append(names, m.DisplayName)
	}
	want := []string{"Alice", "Bob", "Carol"}
	if len(names) != len(want) {
		t.Fatalf("members: expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("member %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	_, err = c.groups.AddMember(ctx, authed(&api.AddMemberRequest{GroupID: groupID, Email: "nobody@example.com"}, alice))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGroupAccessRequiresMembership(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	alice := register(t, c, "alice@example.com", "Alice")
	mallory := register(t, c, "mallory@example.com", "Mallory")

	groupID := createGroupWith(t, c, alice)

	_, err := c.groups.GetGroup(ctx, authed(&api.GetGroupRequest{GroupID: groupID}, mallory))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = c.groups.AddMember(ctx, authed(&api.AddMemberRequest{GroupID: groupID, Email: "mallory@example.com"}, mallory))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestListGroups(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	alice := register(t, c, "alice@example.com", "Alice")
	bob := register(t, c, "bob@example.com", "Bob")

	createGroupWith(t, c, alice, "bob@example.com")
	createGroupWith(t, c, alice)

	resp, err := c.groups.ListGroups(ctx, authed(&api.ListGroupsRequest{}, alice))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 2 {
		t.Errorf("alice: expected 2 groups, got %d", len(resp.Msg.Groups))
	}

	resp, err = c.groups.ListGroups(ctx, authed(&api.ListGroupsRequest{}, bob))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 1 {
		t.Errorf("bob: expected 1 group, got %d", len(resp.Msg.Groups))
	}
}
