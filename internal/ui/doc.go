// Package ui renders the espcoredump command output.
//
// Every command follows the same "run once and exit" flow: a Header naming the
// command and its inputs, a step list while the dump is read and converted, and a
// Result box with the outcome. Nothing here reads input from the user.
//
// Components:
//
//   - Header: command banner with ordered parameters
//   - Progress: progress bar plus step list
//   - Result: success, warning and failure boxes
//   - TaskTable: per-task summary of a produced core file
//   - ToolOutput: captured gdb output split into command sections
//
// Runner ties them together:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Create core file",
//	    Command:   "espcoredump create",
//	    Params:    []ui.Field{{Key: "Core", Value: path}},
//	    StepNames: []string{"Read dump", "Write core"},
//	})
//	err := runner.Run(func(onStep ui.StepCallback) ([]ui.Field, error) {
//	    onStep(1, ui.StepRunning, "")
//	    ...
//	})
//
// Logging is controlled separately through ESPCOREDUMP_LOG_LEVEL and goes to
// stderr, so it never interleaves with the boxes written here.
package ui
