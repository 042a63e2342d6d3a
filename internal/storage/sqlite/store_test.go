package sqlite

import (
	"context"
	"errors"
	"testing"

	"boards/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *Store, name, email string) models.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), name, email, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%q) returned error: %v", email, err)
	}
	return user
}

func mustCreateProject(t *testing.T, store *Store, ownerID int64, title string) models.Project {
	t.Helper()
	project, err := store.CreateProject(context.Background(), ownerID, title, "")
	if err != nil {
		t.Fatalf("CreateProject(%q) returned error: %v", title, err)
	}
	return project
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, store, "Ann", "a@x.com")

	_, err := store.CreateUser(ctx, "Other Ann", "a@x.com", "hash2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken for duplicate email, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := mustCreateUser(t, store, "Ann", "a@x.com")

	user, err := store.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("expected user id %d, got %d", created.ID, user.ID)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown email, got %v", err)
	}
}

func TestProjectMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	member := mustCreateUser(t, store, "Member", "m@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	ok, err := store.IsMember(ctx, project.ID, member.ID)
	if err != nil {
		t.Fatalf("IsMember returned error: %v", err)
	}
	if ok {
		t.Error("expected user to not be a member before AddMember")
	}

	// Adding twice must not create duplicate rows.
	if err := store.AddMember(ctx, project.ID, member.ID); err != nil {
		t.Fatalf("AddMember returned error: %v", err)
	}
	if err := store.AddMember(ctx, project.ID, member.ID); err != nil {
		t.Fatalf("repeated AddMember returned error: %v", err)
	}

	got, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject returned error: %v", err)
	}
	if len(got.MemberIDs) != 1 || got.MemberIDs[0] != member.ID {
		t.Errorf("expected member ids [%d], got %v", member.ID, got.MemberIDs)
	}
}

func TestListProjectsScopedToUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ann := mustCreateUser(t, store, "Ann", "a@x.com")
	bob := mustCreateUser(t, store, "Bob", "b@x.com")

	owned := mustCreateProject(t, store, ann.ID, "Ann's project")
	joined := mustCreateProject(t, store, bob.ID, "Bob's project")
	mustCreateProject(t, store, bob.ID, "Private to Bob")

	if err := store.AddMember(ctx, joined.ID, ann.ID); err != nil {
		t.Fatalf("AddMember returned error: %v", err)
	}

	projects, err := store.ListProjects(ctx, ann.ID)
	if err != nil {
		t.Fatalf("ListProjects returned error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects for Ann, got %d", len(projects))
	}
	ids := map[int64]bool{projects[0].ID: true, projects[1].ID: true}
	if !ids[owned.ID] || !ids[joined.ID] {
		t.Errorf("expected projects %d and %d, got %v", owned.ID, joined.ID, ids)
	}
}

func TestTaskDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	task, err := store.CreateTask(ctx, models.Task{ProjectID: project.ID, Title: "Design"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if task.Status != models.StatusTodo {
		t.Errorf("expected default status %q, got %q", models.StatusTodo, task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("expected default priority %q, got %q", models.PriorityMedium, task.Priority)
	}
	if task.AssigneeID != nil {
		t.Errorf("expected no assignee, got %v", *task.AssigneeID)
	}
}

func TestCreateTaskRequiresProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No project with id 99 exists; the foreign key must reject the insert.
	_, err := store.CreateTask(ctx, models.Task{ProjectID: 99, Title: "Orphan"})
	if err == nil {
		t.Error("expected error creating a task for a missing project")
	}
}

func TestListTasksFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	assignee := mustCreateUser(t, store, "Dev", "d@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	mk := func(title, status, priority string, assigneeID *int64) {
		t.Helper()
		_, err := store.CreateTask(ctx, models.Task{
			ProjectID:  project.ID,
			Title:      title,
			Status:     status,
			Priority:   priority,
			AssigneeID: assigneeID,
		})
		if err != nil {
			t.Fatalf("CreateTask(%q) returned error: %v", title, err)
		}
	}

	mk("one", models.StatusDone, models.PriorityHigh, &assignee.ID)
	mk("two", models.StatusDone, models.PriorityLow, nil)
	mk("three", models.StatusTodo, models.PriorityHigh, &assignee.ID)

	done, err := store.ListTasks(ctx, project.ID, TaskFilter{Status: models.StatusDone})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(done) != 2 {
		t.Errorf("expected 2 Done tasks, got %d", len(done))
	}
	for _, task := range done {
		if task.Status != models.StatusDone {
			t.Errorf("filter leaked task with status %q", task.Status)
		}
	}

	// Conjunctive filters narrow further.
	filtered, err := store.ListTasks(ctx, project.ID, TaskFilter{
		Status:     models.StatusDone,
		Priority:   models.PriorityHigh,
		AssigneeID: &assignee.ID,
	})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Title != "one" {
		t.Errorf("expected only task %q, got %v", "one", filtered)
	}
}

func TestUpdateTaskWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	task, err := store.CreateTask(ctx, models.Task{ProjectID: project.ID, Title: "Design", Description: "old"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	updated, err := store.UpdateTask(ctx, task.ID, models.Task{
		Title:    "Design v2",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}
	if updated.Title != "Design v2" || updated.Status != models.StatusInProgress || updated.Priority != models.PriorityHigh {
		t.Errorf("unexpected task after update: %+v", updated)
	}
	if updated.Description != "" {
		t.Errorf("expected description replaced wholesale, got %q", updated.Description)
	}
}

func TestUpdateTaskStatusOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	task, err := store.CreateTask(ctx, models.Task{
		ProjectID:   project.ID,
		Title:       "Design",
		Description: "keep me",
		Priority:    models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	moved, err := store.UpdateTaskStatus(ctx, task.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("UpdateTaskStatus returned error: %v", err)
	}
	if moved.Status != models.StatusDone {
		t.Errorf("expected status Done, got %q", moved.Status)
	}
	if moved.Description != "keep me" || moved.Priority != models.PriorityHigh {
		t.Errorf("status transition touched other fields: %+v", moved)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	task, err := store.CreateTask(ctx, models.Task{ProjectID: project.ID, Title: "Design"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if _, err := store.CreateComment(ctx, task.ID, owner.ID, "looks good"); err != nil {
		t.Fatalf("CreateComment returned error: %v", err)
	}

	if err := store.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject returned error: %v", err)
	}

	if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected task gone after cascade, got %v", err)
	}
	comments, err := store.ListComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("ListComments returned error: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected comments gone after cascade, got %d", len(comments))
	}
}

func TestCommentsOrderedOldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Owner", "o@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")

	task, err := store.CreateTask(ctx, models.Task{ProjectID: project.ID, Title: "Design"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	for _, content := range []string{"first", "second", "third"} {
		if _, err := store.CreateComment(ctx, task.ID, owner.ID, content); err != nil {
			t.Fatalf("CreateComment(%q) returned error: %v", content, err)
		}
	}

	comments, err := store.ListComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("ListComments returned error: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	for i, want := range []string{"first", "second", "third"} {
		if comments[i].Content != want {
			t.Errorf("comment %d: expected %q, got %q", i, want, comments[i].Content)
		}
	}
}

func TestNotFoundErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetProject(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProject: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetTask(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteProject(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProject: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteTask(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask: expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateTaskStatus(ctx, 404, models.StatusDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTaskStatus: expected ErrNotFound, got %v", err)
	}
}

func TestBlankRequiredFieldsAreInvalidInput(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, store, "Ann", "a@x.com")
	project := mustCreateProject(t, store, owner.ID, "Roadmap")
	task, err := store.CreateTask(ctx, models.Task{ProjectID: project.ID, Title: "Design"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if _, err := store.CreateUser(ctx, "   ", "b@x.com", "hash"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateUser blank name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.CreateProject(ctx, owner.ID, "   ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateProject blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.UpdateProject(ctx, project.ID, "   ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateProject blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.CreateTask(ctx, models.Task{ProjectID: project.ID, Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateTask blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.UpdateTask(ctx, task.ID, models.Task{Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateTask blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.CreateComment(ctx, task.ID, owner.ID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateComment blank content: expected ErrInvalidInput, got %v", err)
	}
}
