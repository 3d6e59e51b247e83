// Package config provides the run configuration for forgeseed.
//
// A Config is assembled in three layers, each overriding the previous one:
//
//  1. Built-in defaults (Default), matching the documented defaults of the
//     registration environment variables.
//  2. An optional YAML file passed with --config.
//  3. Environment variables (MCPGATEWAY_URL, MINDSDB_URL, JWT_ALGORITHM, ...).
//
// The resulting value is handed to the orchestrator and never mutated.
// Per-integration requirements are checked with Config.ValidateFor, which
// reports every missing value at once as a ConfigurationErrorCollection.
//
// # Example config file
//
//	controlPlane:
//	  url: http://gateway:4444
//	  domain: forge.example.com
//	token:
//	  algorithm: RS256
//	  privateKeyPath: /run/secrets/jwt.pem
//	discovery:
//	  timeout: 3m
//	  interval: 2s
//	mindsdb:
//	  url: http://mindsdb:47334
package config
