/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package main

//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/mwat56/apachelogger"
	se "github.com/mwat56/sourceerror"
)

// `DropCapabilities()` drops all capabilities of the process.
//
// The gateway only needs `CAP_NET_BIND_SERVICE` for binding ports 80
// and 443; once the listen sockets exist, no capability is needed
// any more.
//
// Returns:
//   - `error`: The error if any occurs.
func DropCapabilities() error {
	data := unix.CapUserData{
		Effective:   uint32(0),
		Permitted:   uint32(0),
		Inheritable: uint32(0)}
	header := unix.CapUserHeader{}

	if err := unix.Capset(&header, &data); nil != err {
		apachelogger.Err("WebGate/DropCapabilities",
			fmt.Sprintf("Failed to set Capabilities: %v", err))
		return se.Wrap(err, 3)
	}

	return nil
} // DropCapabilities()

// `DropPrivileges()` drops the process's root privileges after the
// listen ports are bound: user/group are switched to `nobody` and
// all capabilities are cleared.
//
// The process keeps its filesystem view — the static asset
// directories, error pages and the backend socket must stay readable
// for the (now unprivileged) worker.
//
// Returns:
//   - `error`: An error if it encounters any issues while dropping
//     the privileges.
func DropPrivileges() error {
	if err := DropUID(-1, -1); nil != err {
		return err
	}

	return DropCapabilities()
} // DropPrivileges()

// `DropUID()` drops the group and user privileges of the process.
//
// It first checks if the process is running as root; if it is not,
// there is nothing to drop.
//
// Parameters:
//   - `aUID`: The user ID to drop to. If it's less than 0, it
//     defaults to 65534 (`nobody`).
//   - `aGID`: The group ID to drop to. If it's less than 0, it
//     defaults to 65534 (`nogroup`).
//
// Returns:
//   - `error`: The error if it encounters any issues while dropping
//     the privileges.
func DropUID(aUID, aGID int) error {
	// Check if running as root
	if 0 < os.Geteuid() {
		// Already running as non-root
		return nil
	}
	var err error

	// Check the UID and GID to drop to
	if 0 > aUID {
		aUID = 65534 // unknown user
	}
	if 0 > aGID {
		aGID = 65534 // unknown group
	}

	// Clear the supplementary groups first …
	var gids []int // empty group list
	if err = syscall.Setgroups(gids); (nil != err) && (syscall.EPERM != err) {
		apachelogger.Err("WebGate/DropUID",
			fmt.Sprintf("Failed to clear Groups: %v", err))
		return se.Wrap(err, 3)
	}

	// … then drop group privileges …
	if err = syscall.Setgid(aGID); (nil != err) && (syscall.EPERM != err) {
		apachelogger.Err("WebGate/DropUID",
			fmt.Sprintf("Failed to set GID: %v", err))
		return se.Wrap(err, 3)
	}

	// … and finally the user privileges.
	if err = syscall.Setuid(aUID); (nil != err) && (syscall.EPERM != err) {
		apachelogger.Err("WebGate/DropUID",
			fmt.Sprintf("Failed to set UID: %v", err))
		return se.Wrap(err, 3)
	}

	apachelogger.Log("WebGate/DropUID",
		fmt.Sprintf("Privileges dropped. Current UID: %d, GID: %d",
			os.Getuid(), os.Getgid()))

	return nil
} // DropUID()

/* _EoF_ */
