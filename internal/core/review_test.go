package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileContents_ConcurrentSet(t *testing.T) {
	files := NewFileContents()

	var wg sync.WaitGroup
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			files.Set(fmt.Sprintf("f%03d", i), fmt.Sprint(i))
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, files.Len())
	content, ok := files.Get("f042")
	assert.True(t, ok)
	assert.Equal(t, "42", content)

	var order []string
	files.Each(func(path, _ string) { order = append(order, path) })
	assert.Equal(t, files.Paths(), order)
	assert.Equal(t, "f000", order[0])
}

func TestChangeSet_Revision(t *testing.T) {
	assert.Equal(t, "abc", (&ChangeSet{HeadSHA: "abc", SourceBranch: "feat"}).Revision("main"))
	assert.Equal(t, "feat", (&ChangeSet{SourceBranch: "feat"}).Revision("main"))
	assert.Equal(t, "main", (&ChangeSet{}).Revision("main"))
}

func TestApprovalState_ApprovedBy(t *testing.T) {
	state := ApprovalState{ApproverIDs: map[int64]struct{}{7: {}}}
	assert.True(t, state.ApprovedBy(7))
	assert.False(t, state.ApprovedBy(8))
	assert.False(t, ApprovalState{}.ApprovedBy(7))
}
