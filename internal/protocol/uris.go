package protocol

// Command URIs issued on the control channel
const (
	URICreateToast           = "ssap://system.notifications/createToast"
	URISet3DOn               = "ssap://com.webos.service.tv.display/set3DOn"
	URISet3DOff              = "ssap://com.webos.service.tv.display/set3DOff"
	URIGet3DStatus           = "ssap://com.webos.service.tv.display/get3DStatus"
	URIGetExternalInputList  = "ssap://tv/getExternalInputList"
	URISwitchInput           = "ssap://tv/switchInput"
	URIGetCurrentChannel     = "ssap://tv/getCurrentChannel"
	URIGetVolume             = "ssap://audio/getVolume"
	URISetVolume             = "ssap://audio/setVolume"
	URIGetAudioStatus        = "ssap://audio/getStatus"
	URISendEnterKey          = "ssap://com.webos.service.ime/sendEnterKey"
	URIGetPointerInputSocket = "ssap://com.webos.service.networkinput/getPointerInputSocket"
)
