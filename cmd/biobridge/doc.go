// Command biobridge reconciles biological identifier datasets through
// configurable multi-stage matching pipelines.
package main
