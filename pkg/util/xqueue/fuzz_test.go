package xqueue

import "testing"

// FuzzPushPop 用切片作为模型，验证任意 push/pop 序列下的单线程 FIFO 行为。
func FuzzPushPop(f *testing.F) {
	f.Add([]byte{1, 1, 0, 1, 0, 0, 0})
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0})
	f.Add([]byte{1, 1, 1, 1, 1})

	f.Fuzz(func(t *testing.T, ops []byte) {
		q := New[int]()
		var model []int
		next := 0

		for _, op := range ops {
			if op%2 == 1 {
				q.Push(next)
				model = append(model, next)
				next++
				continue
			}
			v, ok := q.TryPop()
			if len(model) == 0 {
				if ok {
					t.Fatalf("TryPop on empty queue returned %d", v)
				}
				continue
			}
			if !ok || v != model[0] {
				t.Fatalf("TryPop = (%d, %v), want (%d, true)", v, ok, model[0])
			}
			model = model[1:]
		}

		if q.IsEmpty() != (len(model) == 0) {
			t.Fatalf("IsEmpty = %v, model len = %d", q.IsEmpty(), len(model))
		}
		if q.Len() != len(model) {
			t.Fatalf("Len = %d, want %d", q.Len(), len(model))
		}
	})
}
