package geo

import (
	"context"
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"
)

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	RegisteredCountry struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"registered_country"`
}

// MaxMindLocator looks addresses up in a GeoLite2/GeoIP2 Country or City database
// Private, loopback and unknown addresses resolve to DefaultCountry
// MaxMindLocator 使用 GeoLite2/GeoIP2 Country 或 City 数据库查询地址
// 内网、回环及未知地址返回 DefaultCountry
type MaxMindLocator struct {
	reader         *maxminddb.Reader
	DefaultCountry string
}

// OpenMaxMind opens the mmdb file at path
// OpenMaxMind 打开 mmdb 数据库文件
func OpenMaxMind(path, defaultCountry string) (*MaxMindLocator, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open mmdb")
	}
	return &MaxMindLocator{reader: reader, DefaultCountry: strings.ToUpper(defaultCountry)}, nil
}

// skipLookup reports whether ip is not routable on the public internet
func skipLookup(ip net.IP) bool {
	return ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}

func (l *MaxMindLocator) Country(_ context.Context, addr string) (string, error) {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if skipLookup(ip) {
		return l.DefaultCountry, nil
	}

	var rec countryRecord
	if err := l.reader.Lookup(ip, &rec); err != nil {
		return "", errors.Wrap(err, "mmdb lookup")
	}
	if rec.Country.ISOCode != "" {
		return strings.ToUpper(rec.Country.ISOCode), nil
	}
	if rec.RegisteredCountry.ISOCode != "" {
		return strings.ToUpper(rec.RegisteredCountry.ISOCode), nil
	}
	return l.DefaultCountry, nil
}

// Close releases the memory mapped database
func (l *MaxMindLocator) Close() error {
	return l.reader.Close()
}
