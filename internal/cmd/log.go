package cmd

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("bindgen.cmd")

// quietVerbosity is the commonlog verbosity used without -v: warnings and
// errors only. Each -v raises it by one.
const quietVerbosity = -2

// configureLogging sets the backend verbosity from the -v count and directs
// output to path when it is not empty.
func configureLogging(count int, path string) {
	verbosity := quietVerbosity + count
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}
