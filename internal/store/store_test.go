package store_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/promptpick/internal/selection"
	"github.com/temirov/promptpick/internal/store"
	"github.com/temirov/promptpick/internal/types"
)

type recordingPersister struct {
	mutex sync.Mutex
	saves []types.SavedState
}

func (persister *recordingPersister) Load() types.SavedState {
	return types.SavedState{SelectedPaths: []string{}, ExpandedNodes: []string{}}
}

func (persister *recordingPersister) Save(saved types.SavedState) error {
	persister.mutex.Lock()
	defer persister.mutex.Unlock()
	persister.saves = append(persister.saves, saved)
	return nil
}

func (persister *recordingPersister) saveCount() int {
	persister.mutex.Lock()
	defer persister.mutex.Unlock()
	return len(persister.saves)
}

func (persister *recordingPersister) lastSave() types.SavedState {
	persister.mutex.Lock()
	defer persister.mutex.Unlock()
	return persister.saves[len(persister.saves)-1]
}

func storeTree() *types.FileTreeNode {
	root := &types.FileTreeNode{Name: "root", Path: "/root", IsDirectory: true}
	for index := 0; index < 10; index++ {
		root.Children = append(root.Children, &types.FileTreeNode{
			Name:             fmt.Sprintf("f%d.txt", index),
			Path:             fmt.Sprintf("/root/f%d.txt", index),
			IsSelectableText: true,
		})
	}
	return root
}

func closeStore(t *testing.T, viewerStore *store.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, viewerStore.Close(ctx))
}

func TestDispatchAppliesTransformsInOrder(t *testing.T) {
	viewerStore := store.New(store.Options{})
	defer closeStore(t, viewerStore)

	viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	var last <-chan types.ViewerState
	expected := make([]string, 0, 10)
	for index := 9; index >= 0; index-- {
		path := fmt.Sprintf("/root/f%d.txt", index)
		expected = append(expected, path)
		last = viewerStore.Dispatch(selection.ToggleSelection(path))
	}
	final := <-last
	require.Equal(t, expected, final.SelectedPaths.Paths())
	require.Equal(t, 10, final.Stats.SelectedCount)
	require.Equal(t, expected, viewerStore.Snapshot().SelectedPaths.Paths())
}

func TestDispatchRecomputesStats(t *testing.T) {
	viewerStore := store.New(store.Options{})
	defer closeStore(t, viewerStore)

	viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	viewerStore.Dispatch(selection.ToggleSelection("/root/f1.txt"))
	state := <-viewerStore.Dispatch(selection.StoreContent("/root/f1.txt", "abcdefgh"))
	require.Equal(t, types.Stats{SelectedCount: 1, TotalTokens: 2}, state.Stats)

	state = <-viewerStore.Dispatch(selection.DeselectAll)
	require.Equal(t, types.Stats{}, state.Stats)
}

func TestBurstOfTransformsIsSavedOnce(t *testing.T) {
	persister := &recordingPersister{}
	viewerStore := store.New(store.Options{Persister: persister, QuietPeriod: 200 * time.Millisecond})
	defer closeStore(t, viewerStore)

	viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	var last <-chan types.ViewerState
	for index := 0; index < 10; index++ {
		last = viewerStore.Dispatch(selection.ToggleSelection(fmt.Sprintf("/root/f%d.txt", index)))
	}
	final := <-last

	require.Eventually(t, func() bool { return persister.saveCount() == 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	require.Equal(t, 1, persister.saveCount())
	require.Equal(t, types.SavedStateOf(final), persister.lastSave())
}

func TestCloseFlushesPendingSave(t *testing.T) {
	persister := &recordingPersister{}
	viewerStore := store.New(store.Options{Persister: persister, QuietPeriod: time.Hour})

	viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	<-viewerStore.Dispatch(selection.ToggleSelection("/root/f3.txt"))
	require.Equal(t, 0, persister.saveCount())

	closeStore(t, viewerStore)
	require.Equal(t, 1, persister.saveCount())
	require.Equal(t, []string{"/root/f3.txt"}, persister.lastSave().SelectedPaths)
}

func TestCloseAppliesQueuedTransforms(t *testing.T) {
	viewerStore := store.New(store.Options{})
	viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	viewerStore.Dispatch(selection.SelectAll)
	closeStore(t, viewerStore)
	require.Equal(t, 10, viewerStore.Snapshot().Stats.SelectedCount)

	state := <-viewerStore.Dispatch(selection.DeselectAll)
	require.Equal(t, 10, state.Stats.SelectedCount)
}

func TestConcurrentDispatchersNeverInterleave(t *testing.T) {
	viewerStore := store.New(store.Options{})
	defer closeStore(t, viewerStore)

	counterTransform := func(state types.ViewerState) types.ViewerState {
		state.ExpandedPaths = state.ExpandedPaths.With(fmt.Sprintf("/step/%d", state.ExpandedPaths.Len()))
		return state
	}
	var waitGroup sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for iteration := 0; iteration < 25; iteration++ {
				<-viewerStore.Dispatch(counterTransform)
			}
		}()
	}
	waitGroup.Wait()
	require.Equal(t, 200, viewerStore.Snapshot().ExpandedPaths.Len())
}

func TestSubscribersReceiveLatestState(t *testing.T) {
	viewerStore := store.New(store.Options{})
	subscription := viewerStore.Subscribe()

	viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	<-viewerStore.Dispatch(selection.SelectAll)

	latest := <-subscription
	require.Equal(t, 10, latest.Stats.SelectedCount)

	closeStore(t, viewerStore)
	_, open := <-subscription
	require.False(t, open)
}

type blockingPersister struct {
	started  chan struct{}
	release  chan struct{}
	mutex    sync.Mutex
	finished int
}

func (persister *blockingPersister) Load() types.SavedState {
	return types.SavedState{SelectedPaths: []string{}, ExpandedNodes: []string{}}
}

func (persister *blockingPersister) Save(types.SavedState) error {
	persister.started <- struct{}{}
	<-persister.release
	persister.mutex.Lock()
	persister.finished++
	persister.mutex.Unlock()
	return nil
}

func (persister *blockingPersister) finishedCount() int {
	persister.mutex.Lock()
	defer persister.mutex.Unlock()
	return persister.finished
}

func TestCloseWaitsForSaveInProgress(t *testing.T) {
	persister := &blockingPersister{started: make(chan struct{}, 1), release: make(chan struct{})}
	viewerStore := store.New(store.Options{Persister: persister, QuietPeriod: 10 * time.Millisecond})

	<-viewerStore.Dispatch(selection.ReplaceRoot(storeTree()))
	select {
	case <-persister.started:
	case <-time.After(5 * time.Second):
		t.Fatalf("save did not start")
	}

	closed := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		closed <- viewerStore.Close(ctx)
	}()

	select {
	case <-closed:
		t.Fatalf("close returned before the save finished")
	case <-time.After(100 * time.Millisecond):
	}
	close(persister.release)
	require.NoError(t, <-closed)
	require.Equal(t, 1, persister.finishedCount())
}

func TestStatsStayCheapWithManyLoadedFiles(t *testing.T) {
	const fileCount = 2000
	root := &types.FileTreeNode{Name: "root", Path: "/root", IsDirectory: true}
	for index := 0; index < fileCount; index++ {
		root.Children = append(root.Children, &types.FileTreeNode{
			Name:             fmt.Sprintf("f%d.txt", index),
			Path:             fmt.Sprintf("/root/f%d.txt", index),
			IsSelectableText: true,
		})
	}
	text := strings.Repeat("abcdefgh", 4096)

	viewerStore := store.New(store.Options{})
	defer closeStore(t, viewerStore)

	started := time.Now()
	viewerStore.Dispatch(selection.ReplaceRoot(root))
	viewerStore.Dispatch(selection.SelectAll)
	var last <-chan types.ViewerState
	for index := 0; index < fileCount; index++ {
		last = viewerStore.Dispatch(selection.StoreContent(fmt.Sprintf("/root/f%d.txt", index), text))
	}
	final := <-last
	elapsed := time.Since(started)

	require.Equal(t, types.Stats{SelectedCount: fileCount, TotalTokens: fileCount * len(text) / 4}, final.Stats)
	require.Less(t, elapsed, 10*time.Second)
}
