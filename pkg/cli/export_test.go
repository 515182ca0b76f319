package cli

// RunWithWriter runs the app writing command output to w
var RunWithWriter = run
