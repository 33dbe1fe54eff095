// Package queue provides the unbounded FIFO that feeds the download worker.
package queue
