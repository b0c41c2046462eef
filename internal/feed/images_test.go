package feed

import "testing"

func TestImageCoordinatorLifecycle(t *testing.T) {
	ic := NewImageCoordinator()

	if ic.IsAnyLoading() {
		t.Error("Expected nothing loading initially")
	}

	ic.RegisterStart("a")
	ic.RegisterStart("b")
	if !ic.IsAnyLoading() {
		t.Error("Expected loading after RegisterStart")
	}

	ic.RegisterComplete("a")
	if !ic.IsAnyLoading() {
		t.Error("Expected b still loading")
	}

	ic.RegisterComplete("b")
	if ic.IsAnyLoading() {
		t.Error("Expected nothing loading after all complete")
	}
}

func TestImageCoordinatorErrorUnblocksLikeComplete(t *testing.T) {
	ic := NewImageCoordinator()
	ic.RegisterStart("a")
	ic.RegisterError("a")
	if ic.IsAnyLoading() {
		t.Error("Expected failed image to unblock loading state")
	}
}

func TestImageCoordinatorHasLoadingImages(t *testing.T) {
	ic := NewImageCoordinator()
	ic.RegisterStart("b")

	if !ic.HasLoadingImages([]string{"a", "b", "c"}) {
		t.Error("Expected b to be found loading")
	}
	if ic.HasLoadingImages([]string{"a", "c"}) {
		t.Error("Expected no loading among a, c")
	}
	if ic.HasLoadingImages(nil) {
		t.Error("Expected no loading for empty id list")
	}
}

func TestImageCoordinatorQueuedIsNotLoading(t *testing.T) {
	ic := NewImageCoordinator()
	ic.RegisterQueued("a")

	if ic.IsAnyLoading() {
		t.Error("Queued image must not count as loading")
	}
	if ic.HasLoadingImages([]string{"a"}) {
		t.Error("Queued image must not count as loading")
	}
}

func TestImageCoordinatorOnSettled(t *testing.T) {
	ic := NewImageCoordinator()
	settled := 0
	ic.SetOnSettled(func() { settled++ })

	ic.RegisterStart("a")
	ic.RegisterStart("b")
	ic.RegisterComplete("a")
	if settled != 0 {
		t.Errorf("Expected no settle callback while b loads, got %d", settled)
	}
	ic.RegisterError("b")
	if settled != 1 {
		t.Errorf("Expected one settle callback, got %d", settled)
	}
}

func TestImageCoordinatorReset(t *testing.T) {
	ic := NewImageCoordinator()
	ic.RegisterStart("a")
	ic.Reset()
	if ic.IsAnyLoading() {
		t.Error("Expected reset to clear state")
	}
}
