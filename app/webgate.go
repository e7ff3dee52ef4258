/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package main

//lint:file-ignore ST1005 - I prefer Capitalisation
//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/mwat56/apachelogger"
	"github.com/mwat56/ratelimit"
	"github.com/mwat56/webgate"
)

var (
	// Name of the running program:
	gMe = func() string {
		return filepath.Base(os.Args[0])
	}()
)

// `createServ()` creates and returns a new HTTP server listening on
// the provided address.
// The server is configured with the provided handler and with
// reasonable timeouts, and is set up to handle graceful shutdowns
// when receiving SIGINT or SIGTERM signals.
//
// Parameters:
//   - `aHandler`: The handler to be invoked for each request received
//     by the server.
//   - `aAddr`: The TCP address for the server to listen on.
//
// Returns:
//   - `*http.Server`: A pointer to the newly created and configured
//     HTTP server.
func createServ(aHandler http.Handler, aAddr string) *http.Server {
	server := &http.Server{
		// The TCP address for the server to listen on:
		Addr: aAddr,

		// Request handler to invoke:
		Handler: aHandler,

		// Set timeouts so that a slow or malicious client
		// doesn't hold resources forever
		//
		// The maximum amount of time to wait for the next request;
		// if IdleTimeout is zero, the value of ReadTimeout is used:
		IdleTimeout: 0,

		// The amount of time allowed to read request headers:
		ReadHeaderTimeout: time.Second << 1,

		// The maximum duration for reading the entire request,
		// including the body:
		ReadTimeout: time.Second << 2,

		// The maximum duration before timing out writes of the
		// response; disabled so streaming backend responses aren't
		// cut short:
		WriteTimeout: -1,
	}

	apachelogger.SetErrorLog(server)
	setupSignals(server)

	return server
} // createServ()

// `createServerTLS()` creates and returns the HTTPS server doing the
// gateway's TLS termination.
// The server is configured with the provided handler, with reasonable
// timeouts, and with TLS settings following Mozilla's SSL
// Configuration Generator ("intermediate" profile). HTTP/2 is
// negotiated automatically via ALPN.
//
// Parameters:
//   - `aHandler`: The handler to be invoked for each request received
//     by the server.
//   - `aAddr`: The TCP address for the server to listen on.
//   - `aCertificate`: The TLS certificate to be used for secure
//     communication.
//
// Returns:
//   - `*http.Server`: A pointer to the newly created and configured
//     HTTPS server.
func createServerTLS(aHandler http.Handler, aAddr string, aCertificate tls.Certificate) *http.Server {
	result := createServ(aHandler, aAddr)

	// see:
	// https://ssl-config.mozilla.org/#server=go&config=intermediate
	result.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{aCertificate},
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
			tls.CurveP384,
		},
		MinVersion: tls.VersionTLS12,
	}

	return result
} // createServerTLS()

// `exit()` logs `aMessage` and terminates the program.
//
// Parameters:
//   - `aMessage`: The message to be logged and displayed.
func exit(aMessage string) {
	apachelogger.Err("WebGate/main", aMessage)
	runtime.Gosched() // let the logger write
	log.Fatalln(aMessage)
} // exit()

// `setupSignals()` configures the capture of the interrupts `SIGINT`
// and `SIGTERM` and registers a graceful shutdown of `aServer`.
//
// Parameters:
//   - `aServer`: The HTTP server to be gracefully shut down.
func setupSignals(aServer *http.Server) {
	// handle `CTRL-C` and `kill(15)`:
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for signal := range c {
			msg := fmt.Sprintf("%s captured '%v', stopping program and exiting ...",
				gMe, signal)
			apachelogger.Err(`WebGate/catchSignals`, msg)
			log.Println(msg)
			break
		}

		ctx, cancel := context.WithCancel(context.Background())
		aServer.BaseContext = func(net.Listener) context.Context {
			return ctx
		}
		aServer.RegisterOnShutdown(cancel)

		ctxTimeout, cancelTimeout := context.WithTimeout(
			context.Background(), time.Second<<3,
		)
		defer cancelTimeout()
		if err := aServer.Shutdown(ctxTimeout); nil != err {
			exit(fmt.Sprintf("%s: %v", gMe, err))
		}
	}()
} // setupSignals()

/*
- @title Main function for the gateway server.
*/
func main() {
	var (
		configFile   string
		genCert      bool
		unprivileged bool
	)
	flag.StringVar(&configFile, "config",
		filepath.Join(webgate.ConfDir(), gMe+".json"),
		"name of the JSON configuration file")
	flag.BoolVar(&genCert, "gencert", false,
		"generate a self-signed certificate/key pair and exit")
	flag.BoolVar(&unprivileged, "unprivileged", false,
		"drop root privileges once the listen ports are bound")
	flag.Parse()

	// Load the configuration; any problem here is startup-fatal.
	gateConfig, err := webgate.LoadConfig(configFile)
	if nil != err {
		log.Fatalf("%s configuration load error: %v", gMe, err)
	}

	if genCert {
		certFile, keyFile, err := generateTLS(gateConfig.ServerName,
			filepath.Dir(configFile))
		if nil != err {
			log.Fatalf("%s certificate generation error: %v", gMe, err)
		}
		log.Printf("%s wrote %q and %q", gMe, certFile, keyFile)
		return
	}

	// Unreadable certificate/key files must abort the start, not
	// surface per request.
	certificate, err := tls.LoadX509KeyPair(gateConfig.TLSCertFile,
		gateConfig.TLSKeyFile)
	if nil != err {
		log.Fatalf("%s certificate load error: %v", gMe, err)
	}

	if !webgate.Exists(gateConfig.BackendSocket) {
		// Not fatal: the backend may come up later; until then the
		// clients get a 502 via the configured error page.
		msg := fmt.Sprintf("backend socket %q not (yet) available",
			gateConfig.BackendSocket)
		log.Printf("%s: %s", gMe, msg)
		apachelogger.Log("WebGate/main", msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create the gateway handler and wrap it with the access logger.
	handler := apachelogger.Wrap(webgate.New(gateConfig),
		gateConfig.AccessLog, gateConfig.ErrorLog)
	redirector := apachelogger.Wrap(webgate.NewRedirector(gateConfig),
		gateConfig.AccessLog, gateConfig.ErrorLog)

	var wg sync.WaitGroup

	if 0 < gateConfig.MaxRequests {
		// Operational rate limiting, off unless configured.
		var getMetrics func() ratelimit.TMetrics
		handler, getMetrics = ratelimit.Wrap(handler,
			uint(gateConfig.MaxRequests), gateConfig.WindowSize)

		wg.Add(1)
		go func(aCtx context.Context) { // periodically log metrics
			defer wg.Done()

			var (
				metrics   ratelimit.TMetrics
				prevTotal uint64
				msg       string
			)
			ticker := time.NewTicker(gateConfig.WindowSize * 2)
			defer ticker.Stop()

			for {
				select {
				case <-aCtx.Done():
					apachelogger.Err("WebGate/main", aCtx.Err().Error())
					return

				case <-ticker.C:
					metrics = getMetrics()
					if prevTotal != metrics.TotalRequests {
						prevTotal = metrics.TotalRequests
						msg = fmt.Sprintf("Rate Limiter Metrics:\n"+
							"Total Requests: %d\n"+
							"Blocked Requests: %d\n"+
							"Active Clients: %d\n"+
							"Cleanup Interval: %v\n",
							metrics.TotalRequests,
							metrics.BlockedRequests,
							metrics.ActiveClients,
							metrics.CleanupDuration)
						apachelogger.Log("WebGate/main", msg)
					}
				}
			}
		}(ctx)
	}

	// Bind both ports before any privilege drop; an already-bound
	// port is a startup error, not a serving-time one.
	plainListener, err := net.Listen("tcp", gateConfig.ListenHTTP)
	if nil != err {
		log.Fatalf("%s%s %v", gMe, gateConfig.ListenHTTP, err)
	}
	tlsListener, err := net.Listen("tcp", gateConfig.ListenHTTPS)
	if nil != err {
		log.Fatalf("%s%s %v", gMe, gateConfig.ListenHTTPS, err)
	}

	if unprivileged {
		if err = DropPrivileges(); nil != err {
			exit(fmt.Sprintf("%s can't drop privileges: %v", gMe, err))
		}
	}

	wg.Add(1)
	go func() { // plaintext redirector
		defer wg.Done()

		s := fmt.Sprintf("%s listening HTTP at %s", gMe, gateConfig.ListenHTTP)
		log.Println(s)
		apachelogger.Log("WebGate/main", s)

		serverPlain := createServ(redirector, gateConfig.ListenHTTP)
		if err := serverPlain.Serve(plainListener); nil != err {
			cancel()
			exit(fmt.Sprintf("%s%s %v", gMe, gateConfig.ListenHTTP, err))
		}
	}()

	wg.Add(1)
	go func() { // TLS gateway
		defer wg.Done()

		s := fmt.Sprintf("%s listening HTTPS at %s", gMe, gateConfig.ListenHTTPS)
		log.Println(s)
		apachelogger.Log("WebGate/main", s)

		serverTLS := createServerTLS(handler, gateConfig.ListenHTTPS, certificate)
		if err := serverTLS.ServeTLS(tlsListener,
			gateConfig.TLSCertFile, gateConfig.TLSKeyFile); nil != err {
			cancel()
			exit(fmt.Sprintf("%s%s %v", gMe, gateConfig.ListenHTTPS, err))
		}
	}()

	wg.Wait()
	exit(fmt.Sprintf("%s: %s", gMe, "terminating ..."))
} // main()

/* _EoF_ */
