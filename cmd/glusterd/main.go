// Command glusterd is the management daemon: it bootstraps the
// persisted volume store (store.Store, §6), joins the trusted pool
// (peer.Table) and serves cluster-op RPCs (glusterd.Daemon.ServeHandler)
// over a transport.Transport.
//
// This build serves over transport.InProcess, registering itself under
// --address and blocking on a signal — the single-node demo pool
// spec.md §6 describes, where cmd/gluster's client process and this
// daemon process would share a transport.Transport in the same demo
// harness. A production deployment supplies its own network Transport
// without glusterd.Daemon needing to change.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/gluster/glusterfs-sub025/glusterd"
	"github.com/gluster/glusterfs-sub025/peer"
	"github.com/gluster/glusterfs-sub025/store"
	"github.com/gluster/glusterfs-sub025/transport"
)

func main() {
	workdir := pflag.String("workdir", "/var/lib/glusterd", "directory holding this node's persisted volume records")
	address := pflag.String("address", "localhost", "this node's own address, as peers will dial it")
	debug := pflag.Bool("debug", false, "enable debug-level logging")
	pflag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	st := store.New(*workdir)
	if err := st.Bootstrap(); err != nil {
		logrus.WithError(err).Fatal("glusterd: failed to bootstrap volume store")
	}

	tr := transport.NewInProcess()
	d := glusterd.New(*address, peer.NewTable(), st, tr)
	tr.Register(*address, d.ServeHandler())

	logrus.WithFields(logrus.Fields{
		"address": *address,
		"workdir": *workdir,
		"volumes": len(st.List()),
	}).Info("glusterd: started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	tr.Unregister(*address)
	logrus.Info("glusterd: shutting down")
}
