package widget

// Task is a started network step of the widget
type Task struct {
	done chan struct{}
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) finish() {
	close(t.done)
}

// Done is closed after the result is rendered
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the result is rendered and returns the error the
// widget turned into a message, if any. A nil task returns at once.
func (t *Task) Wait() error {
	if t == nil {
		return nil
	}
	<-t.done
	return t.err
}
