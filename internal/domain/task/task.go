package task

import "encoding/json"

const StreamPrefix = "vufs:stream:"

type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// StreamName returns the redis stream a task type is routed to.
func StreamName(taskType string) string {
	return StreamPrefix + taskType
}

func marshalTask(task interface{}) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T Task](data []byte) (T, error) {
	var t T
	err := json.Unmarshal(data, &t)
	return t, err
}
