package zoneclient

import (
	"hash/crc32"

	"github.com/zonecore/zoneclient/net/filestore"
	"github.com/zonecore/zoneclient/net/wire"
	"github.com/zonecore/zoneclient/world"
)

// mapDownloadFlow requests the arena's map file through the FileRequester
// once MapInformation names it, then parses the result and advances the
// session to Complete, per spec §4.10's MapDownload state and §4.3.
type mapDownloadFlow struct {
	conn  *Connection
	files *filestore.Requester

	onMapReady func(*world.Map, error)
}

func newMapDownloadFlow(conn *Connection, conf Config, onMapReady func(*world.Map, error)) *mapDownloadFlow {
	f := &mapDownloadFlow{conn: conn, onMapReady: onMapReady}
	f.files = filestore.New(conf.Log, conf.ZonesRoot, conf.Name, conn, func(b []byte) uint32 { return crc32.ChecksumIEEE(b) })
	conn.OnHugeChunkComplete(f.files.HandleBody)
	conn.Dispatcher().OnGame(wire.GameMapInformation, f.onMapInformation)
	return f
}

// onMapInformation submits the named file to the FileRequester queue, per
// spec's MapDownload state entry.
func (f *mapDownloadFlow) onMapInformation(body []byte) {
	info, err := wire.DecodeMapInformation(body)
	if err != nil {
		return
	}
	_ = f.conn.sess.Advance(SessionMapDownload)
	_ = f.files.Submit(filestore.Request{
		Filename:     info.Filename,
		ExpectedCRC:  info.Checksum,
		ExpectedSize: info.CompressedSize,
		Decompress:   true,
		Callback: func(data []byte, err error) {
			if err != nil {
				f.onMapReady(nil, err)
				return
			}
			m, lerr := world.Load(data)
			if lerr != nil {
				f.onMapReady(nil, lerr)
				return
			}
			_ = f.conn.sess.Advance(SessionComplete)
			f.onMapReady(m, nil)
		},
	})
}
