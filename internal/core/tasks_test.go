package core

import (
	"context"
	"testing"

	"launchcore/pkg/domain"
)

func TestAddTaskDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")

	task, err := svc.AddTask(ctx, p.ID, Task{Title: "Ship samples", Subtasks: []Subtask{{Title: "Pack"}}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.ID == "" || task.Status != domain.TaskStatusTodo {
		t.Fatalf("defaults: %+v", task)
	}
	if task.Subtasks[0].ID == "" {
		t.Fatal("subtasks get ids on add")
	}

	if _, err := svc.AddTask(ctx, p.ID, Task{Title: " "}); !domain.IsValidation(err) {
		t.Fatalf("blank title: expected validation error, got %v", err)
	}
	if _, err := svc.AddTask(ctx, p.ID, Task{Title: "X", Status: "blocked"}); !domain.IsValidation(err) {
		t.Fatalf("bad status: expected validation error, got %v", err)
	}
}

func TestUpdateTaskRecordsStatusTransition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	task, err := svc.AddTask(ctx, p.ID, Task{Title: "Ship samples"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := svc.UpdateTask(ctx, p.ID, task.ID, func(tk *Task) error {
		tk.Status = domain.TaskStatusDone
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.TaskStatusDone {
		t.Fatalf("status %q", updated.Status)
	}
	history, _ := svc.ListHistory(p.ID)
	if history[0].Summary != "task Ship samples moved to done" {
		t.Fatalf("transition summary %q", history[0].Summary)
	}
}

func TestDeleteTaskRemovesChildren(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	task, err := svc.AddTask(ctx, p.ID, Task{Title: "Ship samples"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddSubtask(ctx, p.ID, task.ID, Subtask{Title: "Pack"}); err != nil {
		t.Fatalf("subtask: %v", err)
	}
	if _, err := svc.AddTaskComment(ctx, p.ID, task.ID, "note"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := svc.DeleteTask(ctx, p.ID, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetTask(p.ID, task.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubtaskLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	task, err := svc.AddTask(ctx, p.ID, Task{Title: "Ship samples"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	a, err := svc.AddSubtask(ctx, p.ID, task.ID, Subtask{Title: "Pack"})
	if err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	b, err := svc.AddSubtask(ctx, p.ID, task.ID, Subtask{Title: "Label"})
	if err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if a.Order != 1 || b.Order != 2 {
		t.Fatalf("orders: %d %d", a.Order, b.Order)
	}

	updated, err := svc.UpdateSubtask(ctx, p.ID, task.ID, a.ID, func(st *Subtask) error {
		st.Done = true
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Done {
		t.Fatal("done flag not applied")
	}

	reordered, err := svc.ReorderSubtasks(ctx, p.ID, task.ID, []string{b.ID, a.ID})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	orders := map[string]int{}
	for _, st := range reordered.Subtasks {
		orders[st.Title] = st.Order
	}
	if orders["Label"] != 1 || orders["Pack"] != 2 {
		t.Fatalf("orders after reorder: %v", orders)
	}

	if err := svc.DeleteSubtask(ctx, p.ID, task.ID, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := svc.GetTask(p.ID, task.ID)
	if len(got.Subtasks) != 1 || got.Subtasks[0].ID != b.ID {
		t.Fatalf("subtasks after delete: %+v", got.Subtasks)
	}
}

func TestTaskCommentsNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	task, err := svc.AddTask(ctx, p.ID, Task{Title: "Ship samples"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	first, err := svc.AddTaskComment(ctx, p.ID, task.ID, "first")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	second, err := svc.AddTaskComment(ctx, p.ID, task.ID, "second")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}

	comments, err := svc.ListTaskComments(p.ID, task.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Fatalf("comment order: %+v", comments)
	}

	if err := svc.DeleteTaskComment(ctx, p.ID, task.ID, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	comments, _ = svc.ListTaskComments(p.ID, task.ID)
	if len(comments) != 1 || comments[0].ID != first.ID {
		t.Fatalf("after delete: %+v", comments)
	}
}
