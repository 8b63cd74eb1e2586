// compileinfoprint is imported for the side effect of printing the compileinfo
// of the tank binaries to os.Stderr
package compileinfoprint

import "github.com/carbocation/tank/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
