package task

import "time"

type ChannelExportTask struct {
	Channel     string    `json:"channel"`      // export channel identifier
	RequestedAt time.Time `json:"requested_at"` // drives the export filename timestamp
}

func (t *ChannelExportTask) TaskType() string {
	return "ChannelExportTask"
}

func (t *ChannelExportTask) TaskValue() ([]byte, error) {
	return marshalTask(t)
}
