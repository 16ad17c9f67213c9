package models

// MaxTaskTextLength is the longest task text accepted from users, in characters
const MaxTaskTextLength = 1000

// Task is a single user-entered task. Identity is its position in the task list.
type Task struct {
	Text string `json:"text"`
}

// TaskTexts returns the texts of tasks in order.
func TaskTexts(tasks []Task) []string {
	texts := make([]string, len(tasks))
	for i, t := range tasks {
		texts[i] = t.Text
	}
	return texts
}
