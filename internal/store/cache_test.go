package store

import (
	"testing"
	"time"

	"fv-go/internal/model"
)

func newTestCached(t *testing.T) (*Cached, *SQLiteStore) {
	t.Helper()
	inner := newTestStore(t)
	cached := NewCached(inner, time.Minute)
	t.Cleanup(func() {
		cached.Close()
	})
	return cached, inner
}

func TestCached_ListChildrenMemoized(t *testing.T) {
	cached, inner := newTestCached(t)

	rootID := "root-1"
	if err := inner.InsertNode(folderNode(rootID, "proj-1", "/", nil, "/")); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}
	if err := inner.InsertNode(fileNode("f-1", "proj-1", "a.txt", &rootID, "/a.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}

	first, err := cached.ListChildren("proj-1", "root-1")
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("ListChildren() length = %d, want 1", len(first))
	}

	// A write bypassing the cache is not visible until invalidation.
	if err := inner.InsertNode(fileNode("f-2", "proj-1", "b.txt", &rootID, "/b.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}

	stale, err := cached.ListChildren("proj-1", "root-1")
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if len(stale) != 1 {
		t.Errorf("cached ListChildren() length = %d, want stale 1", len(stale))
	}

	// A write through the cache invalidates the project's entries.
	if err := cached.InsertNode(fileNode("f-3", "proj-1", "c.txt", &rootID, "/c.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}

	fresh, err := cached.ListChildren("proj-1", "root-1")
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if len(fresh) != 3 {
		t.Errorf("ListChildren() after invalidation = %d, want 3", len(fresh))
	}
}

func TestCached_InvalidationScopedToProject(t *testing.T) {
	cached, inner := newTestCached(t)

	for _, projectID := range []string{"proj-1", "proj-2"} {
		rootID := "root-" + projectID
		if err := inner.InsertNode(folderNode(rootID, projectID, "/", nil, "/")); err != nil {
			t.Fatalf("InsertNode() error: %v", err)
		}
	}

	// Prime the proj-2 cache.
	if _, err := cached.ListChildren("proj-2", "root-proj-2"); err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}

	// Write to proj-1, then sneak a node into proj-2 behind the cache.
	root1 := "root-proj-1"
	if err := cached.InsertNode(fileNode("f-1", "proj-1", "a.txt", &root1, "/a.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}
	root2 := "root-proj-2"
	if err := inner.InsertNode(fileNode("f-2", "proj-2", "b.txt", &root2, "/b.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}

	// proj-2's cache entry survived the proj-1 write.
	children, err := cached.ListChildren("proj-2", "root-proj-2")
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("proj-2 cache invalidated by proj-1 write: %+v", children)
	}
}

func TestCached_ListVersionsMemoized(t *testing.T) {
	cached, inner := newTestCached(t)

	v1 := &model.Version{ID: "v-1", ProjectID: "proj-1", Label: "v1", CreatedBy: "user-1", CreatedAt: testTime,
		Bundle: model.Bundle{BlobRef: "b1", URL: "memory://b1", Size: 1, Checksum: "sha256:x"}}
	if err := inner.InsertVersion(v1); err != nil {
		t.Fatalf("InsertVersion() error: %v", err)
	}

	got, err := cached.ListVersions("proj-1")
	if err != nil {
		t.Fatalf("ListVersions() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListVersions() length = %d, want 1", len(got))
	}

	v2 := &model.Version{ID: "v-2", ProjectID: "proj-1", Label: "v2", CreatedBy: "user-1", CreatedAt: testTime.Add(time.Hour),
		Bundle: model.Bundle{BlobRef: "b2", URL: "memory://b2", Size: 2, Checksum: "sha256:y"}}
	if err := cached.InsertVersion(v2); err != nil {
		t.Fatalf("InsertVersion() error: %v", err)
	}

	fresh, err := cached.ListVersions("proj-1")
	if err != nil {
		t.Fatalf("ListVersions() error: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("ListVersions() after insert = %d, want 2", len(fresh))
	}
	if fresh[0].ID != "v-2" {
		t.Errorf("ListVersions()[0] = %s, want v-2", fresh[0].ID)
	}
}

func TestCached_PointLookupsNotCached(t *testing.T) {
	cached, inner := newTestCached(t)

	got, err := cached.FindNodeByID("f-1")
	if err != nil {
		t.Fatalf("FindNodeByID() error: %v", err)
	}
	if got != nil {
		t.Fatalf("FindNodeByID() = %+v, want nil", got)
	}

	rootID := "root-1"
	if err := inner.InsertNode(folderNode(rootID, "proj-1", "/", nil, "/")); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}
	if err := inner.InsertNode(fileNode("f-1", "proj-1", "a.txt", &rootID, "/a.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}

	// The write bypassed the cache, but point lookups always hit the store.
	got, err = cached.FindNodeByID("f-1")
	if err != nil {
		t.Fatalf("FindNodeByID() error: %v", err)
	}
	if got == nil {
		t.Error("FindNodeByID() = nil after insert, want node")
	}
}

func TestCached_DeleteProjectInvalidates(t *testing.T) {
	cached, inner := newTestCached(t)

	rootID := "root-1"
	if err := inner.InsertNode(folderNode(rootID, "proj-1", "/", nil, "/")); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}
	if err := inner.InsertNode(fileNode("f-1", "proj-1", "a.txt", &rootID, "/a.txt", testTime, true)); err != nil {
		t.Fatalf("InsertNode() error: %v", err)
	}

	if _, err := cached.ListNodesAtPath("proj-1", "/a.txt"); err != nil {
		t.Fatalf("ListNodesAtPath() error: %v", err)
	}

	if err := cached.DeleteProject("proj-1"); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}

	history, err := cached.ListNodesAtPath("proj-1", "/a.txt")
	if err != nil {
		t.Fatalf("ListNodesAtPath() error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("ListNodesAtPath() after delete = %+v, want empty", history)
	}
}
