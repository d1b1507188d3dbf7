package model

type FFProbeOutput struct {
	Format struct {
		Duration float64 `json:"duration,string"`
		BitRate  int64   `json:"bit_rate,string"`
		Size     int64   `json:"size,string"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
	} `json:"streams"`
}
