package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)
	RegisterHandler(ExpiryCheckTask.TaskID(), ExpiryCheckTask.HandleExecution)
	RegisterHandler(DailySummaryTask.TaskID(), DailySummaryTask.HandleExecution)
}
