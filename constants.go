package main

// DEBUG is whether this is a debug build
var DEBUG = true

// SecretsPath is the default path to the file containing secrets
var SecretsPath = "secrets.json"

// DefaultListenAddress is where the report API listens when the keybox does
// not say otherwise
var DefaultListenAddress = ":8081"
