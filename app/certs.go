/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package main

//lint:file-ignore ST1005 - I prefer Capitalisation
//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/mwat56/webgate"
)

// `certFilenames()` generates the filenames for the certificate
// and key files.
// If `aServername` is empty, it defaults to the current app's name.
// If `aPath` is empty, it defaults to the user's config directory.
//
// Parameters:
//   - `aServername`: The server name the certificate is issued for.
//   - `aPath`: The directory to place the files in.
//
// Returns:
//   - `string`: The certificate's filename.
//   - `string`: The private key's filename.
func certFilenames(aServername, aPath string) (string, string) {
	if "" == aServername {
		aServername = filepath.Base(os.Args[0])
	}
	if "" == aPath {
		aPath = webgate.ConfDir()
	} else {
		// make sure `aPath` is absolute
		aPath, _ = filepath.Abs(aPath)
	}

	return fmt.Sprintf("%s/%s.cert", aPath, aServername),
		fmt.Sprintf("%s/%s.key", aPath, aServername)
} // certFilenames()

// `generateTLS()` generates a self-signed certificate and key pair
// for bootstrapping a test setup (the `-gencert` flag).
//
// The certificate's Subject Alternative Name carries `aServername`,
// so a strict TLS client connecting under that name will accept it
// once it trusts the certificate — and reject it under any other
// name.
//
// Parameters:
//   - `aServername`: The server name the certificate is issued for.
//   - `aPath`: The directory to place the files in; empty defaults
//     to the config directory.
//
// Returns:
//   - `rCert`: The certificate's filename.
//   - `rKey`: The private key's filename.
//   - `rErr`: An error if any occurs during the generation process.
func generateTLS(aServername, aPath string) (rCert, rKey string, rErr error) {
	var (
		certBytes    []byte
		certOut      *os.File
		err          error
		keyBytes     []byte
		keyOut       *os.File
		privateKey   *ecdsa.PrivateKey
		serialNumber *big.Int
	)
	commonName := aServername
	if "" == commonName {
		commonName = "localhost"
	}

	// Generate a private key
	if privateKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader); nil != err {
		rErr = fmt.Errorf("Failed to generate private key: %v", err)
		return
	}

	if serialNumber, err = rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128)); nil != err {
		rErr = fmt.Errorf("Failed to generate serial number: %v", err)
		return
	}

	// Create a certificate template
	template := x509.Certificate{
		BasicConstraintsValid: true,
		DNSNames:              []string{commonName},
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		NotBefore:             time.Now(),
		SerialNumber:          serialNumber,
		Subject: pkix.Name{
			Organization: []string{"private server"},
			CommonName:   commonName,
		},
	}

	// Generate a self-signed certificate
	if certBytes, err = x509.CreateCertificate(rand.Reader,
		&template, &template, &privateKey.PublicKey, privateKey); nil != err {
		rErr = fmt.Errorf("Failed to create certificate: %v", err)
		return
	}

	// build the filenames to use for certificate and private key
	rCert, rKey = certFilenames(aServername, aPath)

	// create the certificate's file
	if certOut, err = os.OpenFile(rCert,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0660); nil != err {
		rErr = fmt.Errorf("Failed to create certificate file: %v", err)
		return
	}
	defer certOut.Close()

	// write the certificate's PEM encoding to `certOut`
	if err = pem.Encode(certOut, &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certBytes,
	}); nil != err {
		rErr = fmt.Errorf("Failed to write data to %s: %v", rCert, err)
		return
	}

	// create the key's file
	if keyOut, err = os.OpenFile(rKey,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600); nil != err {
		rErr = fmt.Errorf("Failed to create key file: %v", err)
		return
	}
	defer keyOut.Close()

	// convert the private key to PKCS #8, ASN.1 DER form
	if keyBytes, err = x509.MarshalPKCS8PrivateKey(privateKey); nil != err {
		rErr = fmt.Errorf("Unable to marshal private key: %v", err)
		return
	}

	// write the key's PEM encoding to `keyOut`
	if err = pem.Encode(keyOut, &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}); nil != err {
		rErr = fmt.Errorf("Failed to write data to %s: %v", rKey, err)
	}

	return
} // generateTLS()

/* _EoF_ */
