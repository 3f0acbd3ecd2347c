package main

import (
	"flag"
	"strconv"
)

// initLogging ensures the glog library has been initialized with the given
// settings. glog only configures itself through flags, so this pokes the
// values in after flag.Parse.
func initLogging(logToStderr bool, verbose int) {
	flag.Parse()
	if logToStderr {
		flag.Lookup("logtostderr").Value.Set("true")
	}
	if verbose > 0 {
		flag.Lookup("v").Value.Set(strconv.Itoa(verbose))
	}
}
