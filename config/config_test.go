package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcfg "github/sabouaram/towerd/config"
)

var _ = Describe("Load", func() {
	It("applies defaults for an unconfigured server", func() {
		v := libcfg.New()
		c, err := libcfg.Load(v)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Role).To(Equal("server"))
		Expect(c.BindAddr).To(Equal("0.0.0.0:9302"))
		Expect(c.PeerCount).To(BeNumerically(">", 0))
		Expect(c.ConnectTimeout.Time().Seconds()).To(Equal(5.0))
	})

	It("rejects a client role with no connect address", func() {
		v := libcfg.New()
		v.Set("role", "client")
		_, err := libcfg.Load(v)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown role", func() {
		v := libcfg.New()
		v.Set("role", "spectator")
		_, err := libcfg.Load(v)
		Expect(err).To(HaveOccurred())
	})

	It("accepts a client role with a connect address", func() {
		v := libcfg.New()
		v.Set("role", "client")
		v.Set("connect_addr", "127.0.0.1:9302")
		c, err := libcfg.Load(v)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.ConnectAddr).To(Equal("127.0.0.1:9302"))
	})
})
