/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package webgate

//lint:file-ignore ST1005 - I prefer Capitalisation
//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mwat56/apachelogger"
	se "github.com/mwat56/sourceerror"
)

type (
	// `tConfigFile` is the on-disk JSON representation of the
	// gateway's configuration.
	tConfigFile struct {
		ServerName    string            `json:"server_name"`
		ListenHTTP    string            `json:"listen_http"`
		ListenHTTPS   string            `json:"listen_https"`
		TLSCert       string            `json:"tls_cert"`
		TLSKey        string            `json:"tls_key"`
		Static        map[string]string `json:"static"`
		ErrorPages    map[string]string `json:"error_pages"`
		BackendSocket string            `json:"backend_socket"`
		AccessLog     string            `json:"access_log"`
		ErrorLog      string            `json:"error_log"`
		MaxRequests   int               `json:"max_requests"`
		WindowSize    int               `json:"window_size"` // seconds
	}

	// `TGateConfig` is the gateway's runtime configuration.
	//
	// It is built once at startup by `LoadConfig()` and is read-only
	// afterwards: there are no writers once serving begins, hence no
	// locking anywhere in the request path.
	TGateConfig struct {
		ServerName    string        // public server name (SNI, redirect target)
		ListenHTTP    string        // plaintext listen address
		ListenHTTPS   string        // TLS listen address
		TLSCertFile   string        // path of PEM certificate chain
		TLSKeyFile    string        // path of PEM private key
		BackendSocket string        // unix domain socket of the backend
		AccessLog     string        // name of page access logfile
		ErrorLog      string        // name of page error logfile
		MaxRequests   int           // rate limit per time window (0: off)
		WindowSize    time.Duration // rate limit time window
		routes        tRouteList    // ordered route table
		errorPages    map[int]string
	}
)

// `absDir()` returns `aDirFile` as an absolute path, resolved
// against `aBaseDir` unless it is already absolute.
//
// If `aBaseDir` is empty the current working directory is used.
// An empty `aDirFile` is returned as such.
//
// Parameters:
//   - `aBaseDir`: The directory to resolve relative names against.
//   - `aDirFile`: The file-/directory name to make absolute.
//
// Returns:
//   - `string`: The absolute representation of `aDirFile`.
func absDir(aBaseDir, aDirFile string) string {
	if "" == aDirFile {
		return ""
	}
	if '/' == aDirFile[0] {
		return filepath.Clean(aDirFile)
	}
	if "" == aBaseDir {
		aBaseDir, _ = filepath.Abs("./")
	} else {
		aBaseDir, _ = filepath.Abs(aBaseDir)
	}

	return filepath.Join(aBaseDir, aDirFile)
} // absDir()

// `ConfDir()` returns the directory path where the configuration
// files for the running application should be stored.
//
// If the current user is root, the directory is "/etc/<program_name>",
// otherwise it is "~/.config/<program_name>".
// If the directory does not yet exist, it is created with
// permissions 0770.
//
// Returns:
//   - `rDir`: The directory path as a string.
func ConfDir() (rDir string) {
	me := filepath.Base(os.Args[0])
	if 0 == os.Getuid() { // root user
		rDir = filepath.Join("/etc/", me)
	} else {
		confDir, _ := os.UserConfigDir()
		rDir = filepath.Join(confDir, me)
	}

	if isDirectory(rDir) {
		return
	}

	if err := os.MkdirAll(rDir, 0770); nil != err {
		rDir, _ = os.UserConfigDir()
	}

	return
} // ConfDir()

// `ErrorPage()` returns the configured error-page file for the given
// HTTP status code.
//
// Codes without an exact entry fall back to the configured `500`
// page for all server errors (e.g. a `502` from the backend leg).
//
// Parameters:
//   - `aStatus`: The HTTP status code to look up.
//
// Returns:
//   - `rFile`: The error-page's filename, empty if none is configured.
func (gc *TGateConfig) ErrorPage(aStatus int) (rFile string) {
	if rFile = gc.errorPages[aStatus]; "" != rFile {
		return
	}
	if 500 <= aStatus {
		rFile = gc.errorPages[500]
	}

	return
} // ErrorPage()

// `Routes()` returns the gateway's route table, ordered most
// specific prefix first.
func (gc *TGateConfig) Routes() tRouteList {
	return gc.routes
} // Routes()

// `loadConfigFile()` reads and validates the JSON configuration in
// `aFilename`, populating the runtime configuration.
//
// Relative path values are resolved against the directory holding
// `aFilename`.
//
// Parameters:
//   - `aFilename`: The name of the JSON file to read.
//
// Returns:
//   - `error`: An error in case of problems reading or validating
//     the configuration data.
func (gc *TGateConfig) loadConfigFile(aFilename string) error {
	fileInfo, err := os.Stat(aFilename)
	if nil != err {
		return se.Wrap(err, 2)
	}
	if fileInfo.IsDir() {
		return se.Wrap(fmt.Errorf("%q is a directory, not a configuration file",
			aFilename), 2)
	}
	// The config may hold private pathnames, hence it shouldn't
	// be readable by the world.
	if mode := fileInfo.Mode().Perm(); 0 != (mode & 0004) {
		apachelogger.Log("WebGate/loadConfigFile",
			fmt.Sprintf("Warning: config file %q is world-readable (%04o)",
				aFilename, mode))
	}

	data, err := os.ReadFile(aFilename) //#nosec G304
	if nil != err {
		return se.Wrap(err, 2)
	}

	var cf tConfigFile
	if err = json.Unmarshal(data, &cf); nil != err {
		return se.Wrap(err, 2)
	}

	if "" == cf.BackendSocket {
		return se.Wrap(fmt.Errorf("missing 'backend_socket' in %q",
			aFilename), 2)
	}

	baseDir := filepath.Dir(aFilename)
	gc.ServerName = cf.ServerName
	gc.ListenHTTP = cf.ListenHTTP
	if "" == gc.ListenHTTP {
		gc.ListenHTTP = ":80"
	}
	gc.ListenHTTPS = cf.ListenHTTPS
	if "" == gc.ListenHTTPS {
		gc.ListenHTTPS = ":443"
	}
	gc.TLSCertFile = absDir(baseDir, cf.TLSCert)
	gc.TLSKeyFile = absDir(baseDir, cf.TLSKey)
	gc.BackendSocket = absDir(baseDir, cf.BackendSocket)
	gc.AccessLog = absDir(baseDir, cf.AccessLog)
	gc.ErrorLog = absDir(baseDir, cf.ErrorLog)
	gc.MaxRequests = cf.MaxRequests
	gc.WindowSize = time.Duration(cf.WindowSize) * time.Second
	if (0 < gc.MaxRequests) && (0 >= gc.WindowSize) {
		gc.WindowSize = time.Minute
	}

	gc.errorPages = make(map[int]string, len(cf.ErrorPages))
	for code, page := range cf.ErrorPages {
		status, err := strconv.Atoi(code)
		if (nil != err) || (400 > status) || (599 < status) {
			return se.Wrap(fmt.Errorf("invalid error_pages status %q in %q",
				code, aFilename), 2)
		}
		gc.errorPages[status] = absDir(baseDir, page)
	}

	static := make(map[string]string, len(cf.Static))
	for prefix, dir := range cf.Static {
		static[prefix] = absDir(baseDir, dir)
	}
	gc.routes = newRouteTable(static, gc.errorPages, gc.BackendSocket)

	return nil
} // loadConfigFile()

// `SaveConfig()` writes the current configuration as canonical JSON
// to `aFilename` (mode 0600).
//
// Parameters:
//   - `aFilename`: The name of the file to write.
//
// Returns:
//   - `error`: An error in case of problems writing the file.
func (gc *TGateConfig) SaveConfig(aFilename string) error {
	cf := tConfigFile{
		ServerName:    gc.ServerName,
		ListenHTTP:    gc.ListenHTTP,
		ListenHTTPS:   gc.ListenHTTPS,
		TLSCert:       gc.TLSCertFile,
		TLSKey:        gc.TLSKeyFile,
		BackendSocket: gc.BackendSocket,
		AccessLog:     gc.AccessLog,
		ErrorLog:      gc.ErrorLog,
		MaxRequests:   gc.MaxRequests,
		WindowSize:    int(gc.WindowSize / time.Second),
		Static:        make(map[string]string),
		ErrorPages:    make(map[string]string, len(gc.errorPages)),
	}
	for _, route := range gc.routes {
		if rkStatic == route.kind {
			cf.Static[route.prefix] = route.target
		}
	}
	for status, page := range gc.errorPages {
		cf.ErrorPages[strconv.Itoa(status)] = page
	}

	data, err := json.MarshalIndent(&cf, "", "\t")
	if nil != err {
		return se.Wrap(err, 2)
	}

	if err = os.WriteFile(aFilename, data, 0600); nil != err {
		return se.Wrap(err, 2)
	}

	return nil
} // SaveConfig()

// `LoadConfig()` reads the gateway configuration from the given
// JSON file.
//
// All configuration errors are startup-fatal for the caller: the
// gateway must not start serving with a broken configuration.
//
// Parameters:
//   - `aFilename`: The name of the JSON configuration file.
//
// Returns:
//   - `*TGateConfig`: The loaded runtime configuration.
//   - `error`: An error in case of problems loading the file.
func LoadConfig(aFilename string) (*TGateConfig, error) {
	if "" == aFilename {
		return nil, se.Wrap(fmt.Errorf("empty configuration filename"), 1)
	}

	gc := &TGateConfig{}
	if err := gc.loadConfigFile(aFilename); nil != err {
		return nil, err
	}

	return gc, nil
} // LoadConfig()

/* _EoF_ */
